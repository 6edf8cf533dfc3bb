package inventoryservice

import (
	"context"
	"errors"
	"fmt"
	"lending/models"
	"lending/services/snapshot"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// record stamps c after every fetch started so far, so only a later fetch
// can clear it.
func (s *inventoryService) record(c change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	c.at = s.seq
	s.st.overlay = append(s.st.overlay, c)
}

// resync pulls server truth after a mutation. The mutation already
// succeeded remotely, so a failed resync only leaves the overlay in place.
func (s *inventoryService) resync(ctx context.Context) {
	if err := s.fetch(ctx); err != nil {
		s.logger.GetLogger().Warn("resync after mutation failed", zap.Error(err))
	}
}

// ensureFresh reuses state younger than staleAfter. Concurrent callers
// share a single fetch.
func (s *inventoryService) ensureFresh(ctx context.Context) error {
	s.mu.Lock()
	fresh := s.st.loaded && s.now().Sub(s.st.attempted) < s.staleAfter
	s.mu.Unlock()
	if fresh {
		return nil
	}
	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return nil, s.fetch(context.WithoutCancel(ctx))
	})
	return err
}

func (s *inventoryService) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	started := s.seq
	s.mu.Unlock()

	equipment, err := s.api.ListEquipment(ctx)
	if err != nil {
		return s.fallback(ctx, err)
	}
	requests, err := s.api.ListLoanRequests(ctx)
	if err != nil {
		return s.fallback(ctx, err)
	}
	for i := range equipment {
		if equipment[i].Clamp() {
			s.logger.GetLogger().Warn("clamped inconsistent equipment counts from server",
				zap.Int64("equipment_id", equipment[i].ID),
				zap.Int("quantity", equipment[i].Quantity),
				zap.Int("available", equipment[i].Available))
		}
	}

	s.mu.Lock()
	if started < s.st.appliedSeq {
		s.mu.Unlock()
		s.logger.GetLogger().Debug("discarding out-of-order fetch", zap.Uint64("seq", started))
		return nil
	}
	now := s.now()
	s.st.equipment = equipment
	s.st.requests = requests
	s.st.appliedSeq = started
	s.st.loaded = true
	s.st.degraded = false
	s.st.syncedAt = now
	s.st.attempted = now
	s.st.prune(started)
	s.mu.Unlock()

	s.saveSnapshots(ctx, started, equipment, requests)
	return nil
}

// fallback keeps whatever is in memory, or loads the last snapshots when
// nothing is. Without either the fetch error is returned.
func (s *inventoryService) fallback(ctx context.Context, cause error) error {
	s.logger.GetLogger().Warn("inventory fetch failed, serving cached data", zap.Error(cause))

	s.mu.Lock()
	if s.st.loaded {
		s.st.degraded = true
		s.st.attempted = s.now()
		s.mu.Unlock()
		s.metrics.IncCacheFallback("in_memory")
		return nil
	}
	s.mu.Unlock()

	equipSnap, err := s.store.Load(ctx, snapshot.EquipmentSnapshot)
	if err != nil {
		return s.noCache(cause, err)
	}
	reqSnap, err := s.store.Load(ctx, snapshot.RequestsSnapshot)
	if err != nil {
		return s.noCache(cause, err)
	}
	var equipment []models.Equipment
	if err := jsoniter.Unmarshal(equipSnap.Payload, &equipment); err != nil {
		return s.noCache(cause, err)
	}
	var requests []models.BorrowRequest
	if err := jsoniter.Unmarshal(reqSnap.Payload, &requests); err != nil {
		return s.noCache(cause, err)
	}
	s.metrics.IncCacheFallback(snapshot.EquipmentSnapshot)
	s.metrics.IncCacheFallback(snapshot.RequestsSnapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.st.loaded {
		s.st.equipment = equipment
		s.st.requests = requests
		s.st.loaded = true
		s.st.syncedAt = equipSnap.SavedAt
	}
	s.st.degraded = true
	s.st.attempted = s.now()
	return nil
}

func (s *inventoryService) noCache(cause, cacheErr error) error {
	if !errors.Is(cacheErr, snapshot.ErrNotFound) {
		s.logger.GetLogger().Error("failed to read inventory snapshot", zap.Error(cacheErr))
	}
	return fmt.Errorf("failed to load inventory: %w", cause)
}

func (s *inventoryService) saveSnapshots(ctx context.Context, seq uint64, equipment []models.Equipment, requests []models.BorrowRequest) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if seq < s.savedSeq {
		return
	}
	s.savedSeq = seq

	for name, payload := range map[string]interface{}{
		snapshot.EquipmentSnapshot: equipment,
		snapshot.RequestsSnapshot:  requests,
	} {
		raw, err := jsoniter.Marshal(payload)
		if err == nil {
			err = s.store.Save(ctx, name, raw)
		}
		if err != nil {
			s.logger.GetLogger().Warn("failed to save snapshot", zap.String("snapshot", name), zap.Error(err))
		}
	}
}
