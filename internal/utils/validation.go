package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

// Формат платформенного идентификатора: ровно 10 символов A-Z / 0-9
var pokePokeIDPattern = regexp.MustCompile(`^[A-Z0-9]{10}$`)

const pokePokeIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// IsValidPokePokeID проверяет формат платформенного идентификатора
func IsValidPokePokeID(id string) bool {
	return pokePokeIDPattern.MatchString(id)
}

// GeneratePokePokeID генерирует случайный платформенный идентификатор.
// Используется при автосоздании аккаунта через Telegram, где пользователь
// ещё не вводил свой собственный идентификатор.
func GeneratePokePokeID() (string, error) {
	buf := make([]byte, 10)
	max := big.NewInt(int64(len(pokePokeIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = pokePokeIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}
