package model

// Scoped is implemented by every entity that belongs to a project. Permission
// checks dispatch on the returned project id instead of probing entity shapes.
type Scoped interface {
	AuthorizationScope() int64
}
