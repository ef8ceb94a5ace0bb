package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.NoError(s.Push(0x1234))
	assert.NoError(s.Push(-0xABCD))
	assert.Equal(2, s.Depth())

	val, err := s.Pop()
	assert.NoError(err)
	assert.Equal(int64(-0xABCD), val)

	val, err = s.Pop()
	assert.NoError(err)
	assert.Equal(int64(0x1234), val)
	assert.Equal(0, s.Depth())

	_, err = s.Pop()
	assert.ErrorIs(err, ErrStackEmpty)
}

func TestStack_Pair(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.NoError(s.Push(7))
	assert.NoError(s.Push(10))
	assert.NoError(s.Push(3))

	left, right, err := s.Pair()
	assert.NoError(err)
	assert.Equal(int64(10), left)
	assert.Equal(int64(3), right)
	assert.Equal(1, s.Depth())

	_, _, err = s.Pair()
	assert.ErrorIs(err, ErrStackEmpty)
	assert.Equal(1, s.Depth())
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, err := s.Peek()
	assert.ErrorIs(err, ErrStackEmpty)

	assert.NoError(s.Push(1))
	assert.NoError(s.Push(2))

	val, err := s.Peek()
	assert.NoError(err)
	assert.Equal(int64(2), val)
	assert.Equal(2, s.Depth())
}

func TestStack_Limit(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range STACK_LIMIT {
		assert.NoError(s.Push(int64(i)))
	}

	assert.ErrorIs(s.Push(0), ErrStackFull)
	assert.Equal(STACK_LIMIT, s.Depth())

	s.Reset()
	assert.Equal(0, s.Depth())
}
