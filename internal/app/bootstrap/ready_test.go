package bootstrap

import (
	"context"
	"testing"
	"time"

	orphanstore "github.com/dalemusser/collegesite/internal/app/store/orphans"
	"github.com/dalemusser/collegesite/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type idleQueue struct{}

func (idleQueue) Due(context.Context, time.Time, int64) ([]orphanstore.Orphan, error) {
	return nil, nil
}

func (idleQueue) MarkFailed(context.Context, orphanstore.Orphan, error) (bool, error) {
	return false, nil
}

func (idleQueue) Remove(context.Context, primitive.ObjectID) error { return nil }

func withServices(t *testing.T, s *services) {
	t.Helper()
	svcMu.Lock()
	prev := svc
	svc = s
	svcMu.Unlock()
	t.Cleanup(func() {
		svcMu.Lock()
		svc = prev
		svcMu.Unlock()
	})
}

func TestOnReady_StartsReaper(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	reaper := workers.NewAssetReaper(idleQueue{}, nil, logger, time.Hour)
	withServices(t, &services{Reaper: reaper})

	cfg := validAppConfig(t)
	OnReady(&config.CoreConfig{Env: "dev"}, cfg, DBDeps{}, logger)
	reaper.Stop()

	assert.Equal(t, 1, logs.FilterMessage("asset reaper started").Len())
	ready := logs.FilterMessage("collegesite ready").All()
	if assert.Len(t, ready, 1) {
		fields := ready[0].ContextMap()
		assert.Equal(t, "https://college.test", fields["site_url"])
		assert.Equal(t, "local", fields["asset_backend"])
	}
}

func TestOnReady_BeforeStartup(t *testing.T) {
	withServices(t, nil)
	core, logs := observer.New(zap.InfoLevel)

	OnReady(&config.CoreConfig{}, validAppConfig(t), DBDeps{}, zap.New(core))

	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
	assert.Zero(t, logs.FilterMessage("collegesite ready").Len())
}
