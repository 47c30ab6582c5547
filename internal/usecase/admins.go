package usecase

// AdminSet is the fixed list of administrator ids from configuration.
type AdminSet struct {
	ids []int64
	set map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	s := AdminSet{set: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if _, dup := s.set[id]; dup {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

func (s AdminSet) IsAdmin(id int64) bool {
	_, ok := s.set[id]
	return ok
}

// IDs returns the admins in configuration order.
func (s AdminSet) IDs() []int64 { return s.ids }
