// Package remoteapitest runs an in-process stand-in for the lending API
// with the same quantity bookkeeping rules as the real server.
package remoteapitest

import (
	"fmt"
	"lending/models"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const wireLayout = "2006-01-02T15:04:05"

var DefaultSecret = []byte("fake-remote-secret")

type user struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	password string
}

type equipment struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	Condition         string `json:"condition"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	Description       string `json:"description,omitempty"`
}

type loan struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	EquipmentID int64  `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
	BorrowDate  string `json:"borrow_date"`
	ReturnDate  string `json:"return_date"`
	Status      string `json:"status"`
	Purpose     string `json:"purpose,omitempty"`
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	// MinimalClaims issues tokens carrying only sub and exp, forcing
	// clients to fetch the profile for id and role.
	MinimalClaims bool
	// WrapData wraps list and item responses in {"data": ...}.
	WrapData bool
	Secret   []byte

	mu        sync.Mutex
	users     map[string]*user
	equipment map[int64]*equipment
	loans     map[int64]*loan
	nextID    int64
	down      bool
	fail      []failure
	calls     map[string]int
	now       func() time.Time
}

func NewServer() *Server {
	s := &Server{
		Secret:    DefaultSecret,
		users:     map[string]*user{},
		equipment: map[int64]*equipment{},
		loans:     map[int64]*loan{},
		calls:     map[string]int{},
		now:       time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.gate)
	r.Post("/login", s.login)
	r.Post("/signup", s.signup)
	r.Post("/logout", s.logout)
	r.Get("/equipment", s.listEquipment)
	r.Get("/loan_requests", s.listLoans)
	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/profile/{username}", s.profile)
		r.Post("/equipment", s.createEquipment)
		r.Patch("/equipment/{id}", s.updateEquipment)
		r.Delete("/equipment/{id}", s.deleteEquipment)
		r.Patch("/loan_requests/{id}", s.updateLoan)
		r.Post("/borrow/{id}", s.borrow)
	})
	return r
}

// SetDown makes every call fail at the transport level.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

// FailNext answers the next call with status and a {"detail": message} body.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, _ := json.MarshalToString(map[string]string{"detail": message})
	s.fail = append(s.fail, failure{status: status, body: body})
}

// Calls counts requests by "METHOD /first-segment".
func (s *Server) Calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *Server) AddUser(username, password string, role models.Role) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, username+"@school.test", password, string(role)).ID
}

func (s *Server) addUserLocked(username, email, password, role string) *user {
	s.nextID++
	u := &user{ID: s.nextID, Username: username, Email: email, Role: role, password: password}
	s.users[username] = u
	return u
}

// AddEquipment stores e as given, including inconsistent available counts.
func (s *Server) AddEquipment(e models.Equipment) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.equipment[s.nextID] = &equipment{
		ID:                s.nextID,
		Name:              e.Name,
		Category:          string(e.Category),
		Condition:         string(e.Condition),
		Quantity:          e.Quantity,
		AvailableQuantity: e.Available,
		Description:       e.Description,
	}
	return s.nextID
}

// AddLoan stores a request without touching equipment counts.
func (s *Server) AddLoan(r models.BorrowRequest) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	status := string(r.Status)
	if r.Status == models.StatusApproved {
		status = "accepted"
	}
	s.loans[s.nextID] = &loan{
		ID:          s.nextID,
		UserID:      r.UserID,
		EquipmentID: r.EquipmentID,
		Quantity:    r.Quantity,
		BorrowDate:  r.StartDate.Format(wireLayout),
		ReturnDate:  r.EndDate.Format(wireLayout),
		Status:      status,
		Purpose:     r.Purpose,
	}
	return s.nextID
}

func (s *Server) Equipment(id int64) (models.Equipment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[id]
	if !ok {
		return models.Equipment{}, false
	}
	return models.Equipment{
		ID:        e.ID,
		Name:      e.Name,
		Category:  models.Category(e.Category),
		Condition: models.Condition(e.Condition),
		Quantity:  e.Quantity,
		Available: e.AvailableQuantity,
	}, true
}

// LoanStatus returns the raw server-side status of a request.
func (s *Server) LoanStatus(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loans[id]; ok {
		return l.Status
	}
	return ""
}

func (s *Server) LoanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loans)
}

func (s *Server) Token(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return ""
	}
	return s.tokenLocked(u)
}

func (s *Server) tokenLocked(u *user) string {
	claims := jwt.MapClaims{
		"sub": u.Username,
		"exp": s.now().Add(30 * time.Minute).Unix(),
	}
	if !s.MinimalClaims {
		claims["user_id"] = u.ID
		claims["role"] = u.Role
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	return token
}

func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		segment := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)[0]

		s.mu.Lock()
		s.calls[r.Method+" /"+segment]++
		down := s.down
		var f *failure
		if !down && len(s.fail) > 0 {
			f = &s.fail[0]
			s.fail = s.fail[1:]
		}
		s.mu.Unlock()

		if down {
			panic(http.ErrAbortHandler)
		}
		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return s.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			detail(w, http.StatusUnauthorized, "Invalid/expired token")
			return
		}
		sub, _ := token.Claims.GetSubject()

		s.mu.Lock()
		u, ok := s.users[sub]
		s.mu.Unlock()
		if !ok {
			detail(w, http.StatusUnauthorized, "Invalid/expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, u)))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[body.Username]
	if !ok || u.password != body.Password {
		detail(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{
		"access_token": s.tokenLocked(u),
		"token_type":   "bearer",
	}, false)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if len(body.Password) < 8 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","password"],"msg":"Password must be at least 8 characters long."}]}`))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[body.Username]; taken {
		detail(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if body.Role == "" {
		body.Role = string(models.StudentRole)
	}
	u := s.addUserLocked(body.Username, body.Email, body.Password, body.Role)
	s.respond(w, http.StatusOK, u, false)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"}, false)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond(w, http.StatusOK, u, false)
}

func (s *Server) listEquipment(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	s.respond(w, http.StatusOK, items, true)
}

func (s *Server) createEquipment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Condition   string `json:"condition"`
		Quantity    int    `json:"quantity"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if userFrom(r).Role != string(models.AdminRole) {
		detail(w, http.StatusForbidden, "Only admins can add equipment")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e := &equipment{
		ID:                s.nextID,
		Name:              body.Name,
		Category:          body.Category,
		Condition:         body.Condition,
		Quantity:          body.Quantity,
		AvailableQuantity: body.Quantity,
		Description:       body.Description,
	}
	s.equipment[e.ID] = e
	s.respond(w, http.StatusOK, e, true)
}

func (s *Server) updateEquipment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        *string `json:"name"`
		Category    *string `json:"category"`
		Condition   *string `json:"condition"`
		Quantity    *int    `json:"quantity"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[pathID(r)]
	if !ok {
		detail(w, http.StatusNotFound, "Equipment not found")
		return
	}
	if body.Quantity != nil {
		onLoan := e.Quantity - e.AvailableQuantity
		if *body.Quantity-onLoan < 0 {
			detail(w, http.StatusBadRequest, fmt.Sprintf("Cannot reduce total quantity to %d. %d items are currently on loan.", *body.Quantity, onLoan))
			return
		}
		e.AvailableQuantity = *body.Quantity - onLoan
		e.Quantity = *body.Quantity
	}
	if body.Name != nil {
		e.Name = *body.Name
	}
	if body.Category != nil {
		e.Category = *body.Category
	}
	if body.Condition != nil {
		e.Condition = *body.Condition
	}
	if body.Description != nil {
		e.Description = *body.Description
	}
	s.respond(w, http.StatusOK, e, true)
}

func (s *Server) deleteEquipment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	e, ok := s.equipment[id]
	if !ok {
		detail(w, http.StatusNotFound, "Equipment not found")
		return
	}
	if e.Quantity != e.AvailableQuantity {
		detail(w, http.StatusBadRequest, "Cannot delete equipment. Some items are still on loan.")
		return
	}
	delete(s.equipment, id)
	s.respond(w, http.StatusOK, e, true)
}

func (s *Server) listLoans(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*loan, 0, len(s.loans))
	for _, l := range s.loans {
		items = append(items, l)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	s.respond(w, http.StatusOK, items, true)
}

func (s *Server) updateLoan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.loans[pathID(r)]
	if !ok {
		detail(w, http.StatusNotFound, "Loan request not found")
		return
	}
	e := s.equipment[l.EquipmentID]

	switch body.Status {
	case "accepted":
		if l.Status != "pending" {
			detail(w, http.StatusBadRequest, "Only pending requests can be accepted.")
			return
		}
		if e == nil || e.AvailableQuantity < l.Quantity {
			detail(w, http.StatusBadRequest, "Insufficient equipment quantity to approve this request")
			return
		}
		e.AvailableQuantity -= l.Quantity
	case "returned":
		if l.Status != "accepted" {
			detail(w, http.StatusBadRequest, "Only accepted requests can be returned.")
			return
		}
		if e != nil {
			e.AvailableQuantity += l.Quantity
			if e.AvailableQuantity > e.Quantity {
				e.AvailableQuantity = e.Quantity
			}
		}
	case "rejected":
		if l.Status != "pending" {
			detail(w, http.StatusBadRequest, "Only pending requests can be rejected.")
			return
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"msg":"Input should be 'accepted', 'rejected' or 'returned'"}]}`))
		return
	}
	l.Status = body.Status
	s.respond(w, http.StatusOK, l, true)
}

func (s *Server) borrow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID     int64  `json:"user_id"`
		BorrowDate string `json:"borrow_date"`
		ReturnDate string `json:"return_date"`
		Quantity   int    `json:"quantity"`
		Purpose    string `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	u := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.equipment[pathID(r)]
	if !ok || e.AvailableQuantity <= 0 {
		detail(w, http.StatusNotFound, "Equipment not available")
		return
	}
	borrowDate := body.BorrowDate
	if borrowDate == "" {
		borrowDate = s.now().UTC().Format(wireLayout)
	}
	s.nextID++
	l := &loan{
		ID:          s.nextID,
		UserID:      u.ID,
		EquipmentID: e.ID,
		Quantity:    body.Quantity,
		BorrowDate:  borrowDate,
		ReturnDate:  body.ReturnDate,
		Status:      "pending",
		Purpose:     body.Purpose,
	}
	s.loans[l.ID] = l
	s.respond(w, http.StatusOK, l, true)
}

// respond must be called with s.mu held.
func (s *Server) respond(w http.ResponseWriter, status int, payload interface{}, wrappable bool) {
	if wrappable && s.WrapData {
		payload = map[string]interface{}{"data": payload}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func detail(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(map[string]string{"detail": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
