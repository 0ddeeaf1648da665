package uuid

import guuid "github.com/google/uuid"

// RandomGenerator RFC 4122 v4 ids, matches the uuid primary keys of the relational store
type RandomGenerator struct{}

var _ Generator = RandomGenerator{}

// Generate generate UUID
func (RandomGenerator) Generate() (string, error) {
	id, err := guuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
