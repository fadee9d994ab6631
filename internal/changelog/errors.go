package changelog

import "fmt"

// VersionMismatchError reports that an on-disk changelog's base model
// version does not match what this generation run expects (§6: "Deserialization
// fails with ChangelogVersionMismatch ... when headers do not match
// invocation").
type VersionMismatchError struct {
	Expected int
	Found    int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("changelog: expected base model version %d, found %d", e.Expected, e.Found)
}

// DatabaseMismatchError reports that an on-disk changelog's database
// attribute does not match the database this run is generating for.
type DatabaseMismatchError struct {
	Expected string
	Found    string
}

func (e *DatabaseMismatchError) Error() string {
	return fmt.Sprintf("changelog: expected database %q, found %q", e.Expected, e.Found)
}
