package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.DatabaseDSN = "sqlite://:memory:"
	c.SecretKey = "app-secret"
	c.BcryptCost = bcrypt.MinCost
	return c
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	c := testConfig()
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c, logging.Nop{})
	assert.Error(t, err)
}

func TestNewApp_RejectsBadDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "sqlite://"

	_, err := NewApp(context.Background(), c, logging.Nop{})
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("app exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(7 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}

func TestRun_ServerFailureStopsApp(t *testing.T) {
	c := testConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- app.Run(context.Background())
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grpc")
	case <-time.After(7 * time.Second):
		t.Fatal("app did not stop after server failure")
	}
}
