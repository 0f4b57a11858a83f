package utils

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube.com/pkg/errno"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := Crypt("hunter22")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
}

func TestResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, a, HashToken(a))
	assert.Equal(t, "http://x/reset/"+a, ResetLink("http://x/reset/", a))
}

func TestValidate(t *testing.T) {
	type req struct {
		Name string `validate:"notblank"`
		Kind string `validate:"oneof=like dislike"`
	}
	assert.NoError(t, Validate(req{Name: "a", Kind: "like"}))
	err := Validate(req{Name: "  ", Kind: "love"})
	assert.ErrorIs(t, err, errno.ParamErr)
	assert.Contains(t, err.Error(), "Name failed notblank")
	assert.Contains(t, err.Error(), "Kind failed oneof")
}

func TestCryptKeepsLicenseHeader(t *testing.T) {
	src, err := os.ReadFile("crypt.go")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "/*\n * Copyright 2023 CloudWeGo Authors\n"))
	assert.Contains(t, string(src), "Licensed under the Apache License, Version 2.0")
}
