package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHash bcrypt реализация service.PasswordHasher. Cost - сложность хеширования,
// нулевое значение означает bcrypt.DefaultCost.
type PasswordHash struct {
	Cost int
}

func (p PasswordHash) HashPassword(password string) (string, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (p PasswordHash) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
