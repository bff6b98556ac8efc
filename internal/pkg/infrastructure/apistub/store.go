package apistub

import (
	"fmt"
	"sync"

	"github.com/insurdesk/backoffice/pkg/records"
)

// store is the in-memory table set behind the stub. It mimics the
// observable behavior of the reference back-office service: caller
// supplied string keys, duplicate keys rejected, deletes cascading
// from policyholders to policies to claims.
type store struct {
	mu     sync.Mutex
	tables map[string][]records.Record
}

func newStore() *store {
	return &store{
		tables: make(map[string][]records.Record),
	}
}

var errDuplicate = fmt.Errorf("duplicate key")
var errUnknownKey = fmt.Errorf("unknown key")

func (st *store) insert(s records.Schema, r records.Record) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := r.Key(s)
	for _, existing := range st.tables[s.Resource] {
		if existing.Key(s) == key {
			return errDuplicate
		}
	}

	st.tables[s.Resource] = append(st.tables[s.Resource], r.Clone())
	return nil
}

func (st *store) list(s records.Schema) []records.Record {
	st.mu.Lock()
	defer st.mu.Unlock()

	result := make([]records.Record, 0, len(st.tables[s.Resource]))
	for _, r := range st.tables[s.Resource] {
		result = append(result, r.Clone())
	}
	return result
}

func (st *store) get(s records.Schema, key string) (records.Record, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, r := range st.tables[s.Resource] {
		if r.Key(s) == key {
			return r.Clone(), nil
		}
	}
	return nil, errUnknownKey
}

// merge applies the fields present in the fragment to the stored
// record, leaving the unique key untouched.
func (st *store) merge(s records.Schema, key string, fragment records.Record) (records.Record, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for idx, r := range st.tables[s.Resource] {
		if r.Key(s) != key {
			continue
		}

		updated := r.Clone()
		for _, f := range s.Fields {
			if f.Name == s.Key {
				continue
			}
			if value, ok := fragment[f.Name]; ok {
				updated[f.Name] = value
			}
		}

		st.tables[s.Resource][idx] = updated
		return updated.Clone(), nil
	}

	return nil, errUnknownKey
}

func (st *store) delete(s records.Schema, key string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.remove(s.Resource, s.Key, key) {
		return errUnknownKey
	}

	st.cascade(s, key)
	return nil
}

func (st *store) remove(resource, keyField, key string) bool {
	table := st.tables[resource]
	for idx, r := range table {
		if value, _ := r[keyField].(string); value == key {
			st.tables[resource] = append(table[:idx], table[idx+1:]...)
			return true
		}
	}
	return false
}

// exists reports whether a record with the given key is present in the
// resource, used for foreign key checks on create.
func (st *store) exists(resource, keyField, key string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, r := range st.tables[resource] {
		if value, _ := r[keyField].(string); value == key {
			return true
		}
	}
	return false
}

func (st *store) cascade(s records.Schema, key string) {
	switch s.Resource {
	case "policyholders":
		owned := make([]string, 0, len(st.tables["policies"]))
		for _, policy := range st.tables["policies"] {
			if owner, _ := policy["policyholder_id"].(string); owner == key {
				policyID, _ := policy["policy_id"].(string)
				owned = append(owned, policyID)
			}
		}
		for _, policyID := range owned {
			st.remove("policies", "policy_id", policyID)
			st.cascade(records.Policy(), policyID)
		}
	case "policies":
		owned := make([]string, 0, len(st.tables["claims"]))
		for _, claim := range st.tables["claims"] {
			if owner, _ := claim["policy_id"].(string); owner == key {
				claimID, _ := claim["claim_id"].(string)
				owned = append(owned, claimID)
			}
		}
		for _, claimID := range owned {
			st.remove("claims", "claim_id", claimID)
		}
	}
}
