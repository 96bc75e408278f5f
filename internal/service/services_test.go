// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/wiredsync/internal/mock"
	"github.com/MKhiriev/wiredsync/internal/store"
	"github.com/MKhiriev/wiredsync/models"
)

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func TestResolveDeviceID(t *testing.T) {
	ctx := context.Background()

	t.Run("generated once and persisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		settings := mock.NewMockSettingsRepository(ctrl)
		settings.EXPECT().GetSetting(ctx, store.SettingDeviceID).Return("", store.ErrSettingNotFound)
		settings.EXPECT().SetSetting(ctx, store.SettingDeviceID, "gen-1").Return(nil)

		id, err := ResolveDeviceID(ctx, settings, "", fixedID("gen-1"))
		require.NoError(t, err)
		assert.Equal(t, "gen-1", id)
	})

	t.Run("persisted id reused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		settings := mock.NewMockSettingsRepository(ctrl)
		settings.EXPECT().GetSetting(ctx, store.SettingDeviceID).Return("office", nil)

		id, err := ResolveDeviceID(ctx, settings, "", fixedID("unused"))
		require.NoError(t, err)
		assert.Equal(t, "office", id)
	})

	t.Run("configured id wins", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		settings := mock.NewMockSettingsRepository(ctrl)
		settings.EXPECT().GetSetting(ctx, store.SettingDeviceID).Return("office", nil)
		settings.EXPECT().SetSetting(ctx, store.SettingDeviceID, "truck-2").Return(nil)

		id, err := ResolveDeviceID(ctx, settings, "truck-2", fixedID("unused"))
		require.NoError(t, err)
		assert.Equal(t, "truck-2", id)
	})

	t.Run("hand-edited persisted id rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		settings := mock.NewMockSettingsRepository(ctrl)
		settings.EXPECT().GetSetting(ctx, store.SettingDeviceID).Return("office/annex", nil)

		_, err := ResolveDeviceID(ctx, settings, "", fixedID("unused"))
		assert.ErrorIs(t, err, models.ErrInvalidDeviceID)
	})

	t.Run("read failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		settings := mock.NewMockSettingsRepository(ctrl)
		settings.EXPECT().GetSetting(ctx, store.SettingDeviceID).Return("", errors.New("database is locked"))

		_, err := ResolveDeviceID(ctx, settings, "", fixedID("unused"))
		assert.Error(t, err)
	})
}
