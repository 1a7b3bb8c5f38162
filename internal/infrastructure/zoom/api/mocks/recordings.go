// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
)

// MockRecordingsAPI is a mock implementation of Zoom recording API operations for testing
type MockRecordingsAPI struct {
	ListRecordingsFunc func(ctx context.Context, userID string, from, to time.Time) ([]api.Recording, error)
}

// ListRecordings mocks the ListRecordings API call
func (m *MockRecordingsAPI) ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]api.Recording, error) {
	if m.ListRecordingsFunc != nil {
		return m.ListRecordingsFunc(ctx, userID, from, to)
	}
	return []api.Recording{
		{
			UUID:           "rec-uuid-1",
			ID:             123456789,
			Topic:          "Weekly sync",
			StartTime:      from,
			Duration:       30,
			RecordingCount: 1,
			RecordingFiles: []api.RecordingFile{
				{ID: "file-1", FileType: "MP4", RecordingType: "shared_screen_with_speaker_view"},
			},
		},
	}, nil
}
