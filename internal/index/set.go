package index

// Set is an unordered set of comparable values.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s Set[T]) Add(item T) {
	s[item] = struct{}{}
}

func (s Set[T]) Contains(item T) bool {
	_, exists := s[item]
	return exists
}

func (s Set[T]) Size() int {
	return len(s)
}

// IsSubset reports whether every item of s is also in other.
func (s Set[T]) IsSubset(other Set[T]) bool {
	if s.Size() > other.Size() {
		return false
	}
	for item := range s {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// AppendUnique appends the items of src not yet in seen to dst, keeping the
// order of first occurrence.
func AppendUnique[T comparable](dst []T, seen Set[T], src ...T) []T {
	for _, item := range src {
		if seen.Contains(item) {
			continue
		}
		seen.Add(item)
		dst = append(dst, item)
	}
	return dst
}
