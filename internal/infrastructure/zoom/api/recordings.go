// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// recordingDateLayout is the date format Zoom expects for from/to
const recordingDateLayout = "2006-01-02"

// maxRecordingPages bounds how far ListRecordings follows next_page_token
const maxRecordingPages = 20

// Recording is one cloud-recorded meeting
type Recording struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      time.Time       `json:"start_time"`
	Duration       int             `json:"duration"`
	TotalSize      int64           `json:"total_size"`
	RecordingCount int             `json:"recording_count"`
	ShareURL       string          `json:"share_url,omitempty"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// RecordingFile is a single artifact of a recording (video, audio, transcript, chat)
type RecordingFile struct {
	ID             string    `json:"id"`
	FileType       string    `json:"file_type"`
	FileExtension  string    `json:"file_extension,omitempty"`
	FileSize       int64     `json:"file_size"`
	RecordingType  string    `json:"recording_type"`
	RecordingStart time.Time `json:"recording_start"`
	RecordingEnd   time.Time `json:"recording_end"`
	Status         string    `json:"status,omitempty"`
	PlayURL        string    `json:"play_url,omitempty"`
	DownloadURL    string    `json:"download_url,omitempty"`
}

// recordingsResponse represents a page of the recordings API
type recordingsResponse struct {
	From          string      `json:"from"`
	To            string      `json:"to"`
	PageSize      int         `json:"page_size"`
	TotalRecords  int         `json:"total_records"`
	NextPageToken string      `json:"next_page_token"`
	Meetings      []Recording `json:"meetings"`
}

// ListRecordings lists the cloud recordings of a user between from and to (inclusive dates)
func (c *Client) ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]Recording, error) {
	if userID == "" {
		return nil, errors.New("zoom user id is required")
	}
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "list_recordings"))

	var recordings []Recording
	pageToken := ""
	for page := 0; page < maxRecordingPages; page++ {
		query := url.Values{}
		query.Set("page_size", "300")
		query.Set("from", from.UTC().Format(recordingDateLayout))
		query.Set("to", to.UTC().Format(recordingDateLayout))
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		var resp recordingsResponse
		path := "/users/" + url.PathEscape(userID) + "/recordings?" + query.Encode()
		if err := c.getJSON(ctx, path, &resp); err != nil {
			slog.ErrorContext(ctx, "failed to list Zoom recordings", logging.ErrKey, err)
			return nil, err
		}

		recordings = append(recordings, resp.Meetings...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	slog.DebugContext(ctx, "retrieved Zoom recordings", "recording_count", len(recordings))
	return recordings, nil
}
