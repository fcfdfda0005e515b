package compare

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/observability"
)

// ErrNoSession is returned by stores that cannot find the owner's session.
var ErrNoSession = errors.New("compare: no session")

// Service loads, mutates and persists compare lists.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the owner's stored list. Unreadable stored data yields an empty list.
func (s *Service) List(ctx context.Context, owner string) (List, error) {
	data, err := s.store.Load(ctx, owner)
	if err != nil {
		return List{}, err
	}
	if len(data) == 0 {
		return List{}, nil
	}
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		observability.FromContext(ctx).Warn("discarding unreadable compare list", zap.Error(err))
		return List{}, nil
	}
	return l, nil
}

// Add appends id and persists. ErrFull and ErrDuplicate leave storage untouched.
func (s *Service) Add(ctx context.Context, owner, id string) (List, error) {
	l, err := s.List(ctx, owner)
	if err != nil {
		return List{}, err
	}
	if err := l.Add(id); err != nil {
		return l, err
	}
	return l, s.save(ctx, owner, l)
}

// Remove drops id and persists. Removing an absent id is not an error.
func (s *Service) Remove(ctx context.Context, owner, id string) (List, error) {
	l, err := s.List(ctx, owner)
	if err != nil {
		return List{}, err
	}
	l.Remove(id)
	return l, s.save(ctx, owner, l)
}

func (s *Service) Count(ctx context.Context, owner string) (int, error) {
	l, err := s.List(ctx, owner)
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

func (s *Service) save(ctx context.Context, owner string, l List) error {
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, owner, data)
}
