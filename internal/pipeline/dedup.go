package pipeline

import "sync"

// HashIndex remembers which document each user's content hash belongs to.
type HashIndex struct {
	mu     sync.Mutex
	byUser map[string]map[string]string // user -> hash -> doc
}

func NewHashIndex() *HashIndex {
	return &HashIndex{byUser: make(map[string]map[string]string)}
}

// Claim registers hash for docID unless the user already has it. It returns
// the owning document and whether this call claimed it.
func (h *HashIndex) Claim(userID, hash, docID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hashes := h.byUser[userID]
	if hashes == nil {
		hashes = make(map[string]string)
		h.byUser[userID] = hashes
	}
	if existing, ok := hashes[hash]; ok {
		return existing, false
	}
	hashes[hash] = docID
	return docID, true
}

// Forget drops every hash owned by docID. It reports whether any was found.
func (h *HashIndex) Forget(userID, docID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	found := false
	hashes := h.byUser[userID]
	for hash, owner := range hashes {
		if owner == docID {
			delete(hashes, hash)
			found = true
		}
	}
	if len(hashes) == 0 {
		delete(h.byUser, userID)
	}
	return found
}
