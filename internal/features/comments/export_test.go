package comments

import "time"

// SetNow подменяет часы сервиса в тестах.
func (s *Service) SetNow(now func() time.Time) { s.now = now }
