package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPokePokeID(t *testing.T) {
	valid := []string{"ABCDEF1234", "0000000000", "ZZZZZZZZZZ"}
	for _, id := range valid {
		assert.True(t, IsValidPokePokeID(id), "ожидался валидный ID: %s", id)
	}

	invalid := []string{
		"",
		"ABC123",          // короткий
		"ABCDEF12345",     // длинный
		"abcdef1234",      // строчные буквы
		"ABCDEF-234",      // недопустимый символ
		"ABCDEF 123",      // пробел
		"ＡＢＣＤＥＦ１２３４", // не ASCII
	}
	for _, id := range invalid {
		assert.False(t, IsValidPokePokeID(id), "ожидался невалидный ID: %q", id)
	}
}

func TestGeneratePokePokeID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := GeneratePokePokeID()
		require.NoError(t, err)
		assert.True(t, IsValidPokePokeID(id), "сгенерированный ID невалиден: %s", id)
		seen[id] = struct{}{}
	}
	// Коллизии на 100 генерациях из 36^10 значений практически исключены
	assert.Len(t, seen, 100)
}
