package server

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSequence_StopsServerBeforeCleanups(t *testing.T) {
	var order []string
	step := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}
	boom := errors.New("boom")

	op := sequence(step("server", nil), []Cleanup{
		{Name: "workers", Fn: step("workers", boom)},
		{Name: "postgres", Fn: step("postgres", nil)},
		Close("redis", func() error { order = append(order, "redis"); return nil }),
	}, zerolog.Nop())

	err := op(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"server", "workers", "postgres", "redis"}, order)
}

func TestSequence_NoErrors(t *testing.T) {
	op := sequence(func(context.Context) error { return nil }, nil, zerolog.Nop())
	assert.NoError(t, op(context.Background()))
}
