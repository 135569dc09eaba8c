package store

import "github.com/amishk599/coverletter/internal/model"

// NopStore is a no-op store used in dry-run mode. Nothing is recorded, so
// every URL looks new.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasGenerated(url string) (bool, error)  { return false, nil }
func (s *NopStore) Record(rec model.Record) error          { return nil }
func (s *NopStore) List(limit int) ([]model.Record, error) { return nil, nil }
