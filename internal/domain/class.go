package domain

import "strconv"

// ClassID is the zero-based index of a class.
type ClassID int

// Valid reports whether the class fits a model with n classes.
func (c ClassID) Valid(n int) bool { return c >= 0 && int(c) < n }

// Label converts the class back to a source label with the given base (1 for AG News).
func (c ClassID) Label(base int) int { return int(c) + base }

func (c ClassID) String() string { return strconv.Itoa(int(c)) }
