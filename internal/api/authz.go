package api

// Authored is any record owned by a single author
type Authored interface {
	OwnerID() int64
}

// CanModify is the single authorization predicate for mutating operations:
// only the record's author may edit or delete it. Every mutating handler
// calls it explicitly; callers redirect to the record's detail view when it
// returns false.
func CanModify(userID int64, record Authored) bool {
	return userID != 0 && record.OwnerID() == userID
}
