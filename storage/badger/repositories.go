package badger

// Repositories bundles every BadgerDB repository over one backend.
type Repositories struct {
	Backend     *Backend
	Records     *RecordRepository
	Checkpoints *CheckpointRepository
	Review      *ReviewQueue
	Entities    *EntityRepository
}

// NewRepositories creates every repository over backend.
func NewRepositories(backend *Backend) *Repositories {
	return &Repositories{
		Backend:     backend,
		Records:     NewRecordRepository(backend),
		Checkpoints: NewCheckpointRepository(backend),
		Review:      NewReviewQueue(backend),
		Entities:    NewEntityRepository(backend),
	}
}

// Close closes the backend.
func (r *Repositories) Close() error {
	return r.Backend.Close()
}
