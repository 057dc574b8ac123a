package main

import (
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeExitsWhenAddressIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	type result struct {
		code int
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := serve(app, ln.Addr().String(), make(chan int))
		done <- result{code, err}
	}()

	select {
	case r := <-done:
		assert.Equal(t, 1, r.code)
		assert.Error(t, r.err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after the listen failure")
	}
}
