package biz

import (
	"go-shortlink/internal/conf"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// aliasAlphabet is URL-safe without escaping.
const aliasAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// AliasGenerator produces random alias candidates. Uniqueness is enforced by the store.
type AliasGenerator interface {
	Generate() (string, error)
}

type nanoidGenerator struct {
	length int
}

func NewAliasGenerator(c *conf.Shortener) AliasGenerator {
	return &nanoidGenerator{length: c.Normalize().AliasLength}
}

func (g *nanoidGenerator) Generate() (string, error) {
	return gonanoid.Generate(aliasAlphabet, g.length)
}
