package uidriver_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stocktake/internal/uidriver"
	"github.com/mmynk/stocktake/internal/uidriver/uidrivertest"
)

func TestConditionString(t *testing.T) {
	assert.Equal(t, "visible", uidriver.Visible.String())
	assert.Equal(t, "hidden", uidriver.Hidden.String())
	assert.Equal(t, "enabled", uidriver.Enabled.String())
	assert.Equal(t, `contains text "Login failed"`, uidriver.ContainsText("Login failed").String())
	assert.Equal(t, "Login failed", uidriver.ContainsText("Login failed").Text())
}

func TestFakeWaitUntil(t *testing.T) {
	d := uidrivertest.New()
	d.Set("#error", "Login failed: bad credentials")

	f := d.Field("#error")
	assert.NoError(t, f.WaitUntil(uidriver.Visible, time.Second))
	assert.NoError(t, f.WaitUntil(uidriver.Enabled, time.Second))
	assert.NoError(t, f.WaitUntil(uidriver.ContainsText("Login failed"), time.Second))

	err := f.WaitUntil(uidriver.ContainsText("Welcome"), time.Second)
	assert.ErrorIs(t, err, uidriver.ErrTimeout)

	missing := d.Field("#userEmail")
	assert.NoError(t, missing.WaitUntil(uidriver.Hidden, time.Second))
	assert.ErrorIs(t, missing.WaitUntil(uidriver.Visible, time.Second), uidriver.ErrTimeout)
}

func TestFakeRecordsActions(t *testing.T) {
	d := uidrivertest.New()
	clicked := 0
	d.Set("#submit", "Login").OnClick = func() error {
		clicked++
		return nil
	}
	d.Set("#email", "")

	require.NoError(t, d.Field("#email").Fill("user@example.com"))
	require.NoError(t, d.Field("#submit").ForceClick())
	require.NoError(t, d.Goto("/dashboard"))

	assert.Equal(t, 1, clicked)
	assert.Equal(t, []string{"user@example.com"}, d.ArgsOf("fill", "#email"))
	assert.Equal(t, []string{"force"}, d.ArgsOf("click", "#submit"))
	assert.Equal(t, "http://stocktake.test/dashboard", d.URL())
}

func TestFakeFieldError(t *testing.T) {
	d := uidrivertest.New()
	boom := errors.New("detached")
	d.Set("#total", "$1.00").Err = boom

	_, err := d.Field("#total").Text()
	assert.ErrorIs(t, err, boom)
}
