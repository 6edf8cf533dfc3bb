package server

import (
	"lending/models"
	"lending/utils"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (srv *Server) InjectRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		state := srv.Inventory.State()
		status := http.StatusOK
		if !state.Loaded {
			status = http.StatusServiceUnavailable
		}
		utils.RespondJSON(w, status, map[string]interface{}{
			"status":    "ok",
			"loaded":    state.Loaded,
			"degraded":  state.Degraded,
			"last_sync": state.LastSync,
		})
	})
	r.Handle("/metrics", srv.Metrics.Handler())

	//public routes
	r.Route("/api", func(api chi.Router) {
		api.Post("/login", srv.SessionHandler.Login)
		api.Post("/signup", srv.SessionHandler.Signup)
		api.Post("/logout", srv.SessionHandler.Logout)

		//protected
		api.Group(func(protected chi.Router) {
			protected.Use(srv.Middleware.JWTAuthMiddleware())

			protected.Get("/profile", srv.SessionHandler.Profile)
			protected.Get("/dashboard", srv.InventoryHandler.Dashboard)
			protected.Get("/sync", srv.InventoryHandler.SyncState)

			protected.Get("/equipment", srv.InventoryHandler.ListEquipment)
			protected.Get("/equipment/{id}/availability", srv.InventoryHandler.Availability)
			protected.Get("/requests", srv.InventoryHandler.ListRequests)
			protected.Post("/requests", srv.InventoryHandler.CreateRequest)

			//admin only
			protected.Group(func(admin chi.Router) {
				admin.Use(srv.Middleware.RequireRole(models.AdminRole))
				admin.Post("/equipment", srv.InventoryHandler.AddEquipment)
				admin.Patch("/equipment/{id}", srv.InventoryHandler.UpdateEquipment)
				admin.Delete("/equipment/{id}", srv.InventoryHandler.DeleteEquipment)
			})

			//admin and lab assistant
			protected.Group(func(manager chi.Router) {
				manager.Use(srv.Middleware.RequireRole(models.AdminRole, models.LabAssistantRole))
				manager.Post("/requests/{id}/approve", srv.InventoryHandler.ApproveRequest)
				manager.Post("/requests/{id}/reject", srv.InventoryHandler.RejectRequest)
				manager.Post("/requests/{id}/return", srv.InventoryHandler.ReturnRequest)
			})
		})
	})

	return r
}
