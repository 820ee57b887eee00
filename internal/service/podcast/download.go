package podcast

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/rss-grabber/internal/client/feed"
	"github.com/oshokin/rss-grabber/internal/constants"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

const (
	// File options for overwriting an existing file.
	overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

	// File options for creating a new file (fails if the file already exists).
	createNewFileOptions = os.O_CREATE | os.O_EXCL | os.O_WRONLY
)

// downloadEpisode stores the enclosure of episode at audioPath.
// An existing audioPath is never touched and costs no network request.
func (s *ServiceImpl) downloadEpisode(
	ctx context.Context,
	summary *FeedSummary,
	episode *Episode,
	audioPath string,
) (*DownloadResult, error) {
	isExist, err := utils.IsFileExist(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDownload, episode.EnclosureURL, err)
	}

	if isExist {
		if s.cfg.DryRun {
			logger.Infof(ctx, "[DRY-RUN] Episode '%s' already exists, would skip", audioPath)
		} else {
			logger.Infof(ctx, "Episode '%s' already exists, skipping download", audioPath)
		}

		return &DownloadResult{IsExist: true}, nil
	}

	// Dry-run mode relies on the size announced by the feed and makes no request.
	if s.cfg.DryRun {
		logger.Infof(ctx, "[DRY-RUN] Would download episode to: %s", audioPath)

		return &DownloadResult{BytesDownloaded: episode.EnclosureLength}, nil
	}

	err = s.downloadLimiter.Wait(ctx)
	if err != nil {
		return nil, err
	}

	fetchResult, err := s.feedClient.DownloadFromURL(ctx, episode.EnclosureURL)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDownload, episode.EnclosureURL, err)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	// Download to temporary .part file first for atomic operation.
	tempPath := audioPath + constants.ExtensionPart

	bytesWritten, err := s.writeTempFile(ctx, tempPath, fetchResult)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDownload, episode.EnclosureURL, err)
	}

	// Tags go into the .part file so the final file appears complete.
	if s.cfg.WriteTags && strings.EqualFold(filepath.Ext(audioPath), constants.ExtensionMP3) {
		err = s.tagProcessor.WriteTags(ctx, &WriteTagsRequest{
			AudioPath: tempPath,
			Episode:   episode,
			Feed:      summary,
		})
		if err != nil {
			s.removeTempFile(ctx, tempPath)

			return nil, fmt.Errorf("%w %s: %w: %w", ErrDownload, episode.EnclosureURL, ErrTagging, err)
		}
	}

	err = os.Rename(tempPath, audioPath)
	if err != nil {
		s.removeTempFile(ctx, tempPath)

		return nil, fmt.Errorf("%w %s: failed to finalize file: %w", ErrDownload, episode.EnclosureURL, err)
	}

	logger.Infof(ctx, "Downloaded: %s", audioPath)

	return &DownloadResult{BytesDownloaded: bytesWritten}, nil
}

// writeTempFile streams source into tempPath. The file is removed unless the copy succeeds.
func (s *ServiceImpl) writeTempFile(
	ctx context.Context,
	tempPath string,
	source *feed.DownloadResult,
) (bytesWritten int64, err error) {
	// Always overwrite .part files (they indicate incomplete downloads).
	file, err := os.OpenFile(filepath.Clean(tempPath), overwriteFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close temporary file: %w", closeErr)
		}

		if err != nil {
			s.removeTempFile(ctx, tempPath)
		}
	}()

	var writer io.Writer = file

	if logger.Level() <= zap.InfoLevel {
		bar := progressbar.DefaultBytes(source.TotalBytes, "Downloading")
		writer = io.MultiWriter(file, bar)
	}

	bytesWritten, err = utils.CopyWithSpeedLimit(ctx, writer, source.Body, s.cfg.ParsedDownloadSpeedLimit)
	if err != nil {
		return bytesWritten, fmt.Errorf("failed to write file: %w", err)
	}

	// Content-Length is -1 when the server streams without announcing a size.
	if source.TotalBytes > 0 && bytesWritten != source.TotalBytes {
		return bytesWritten, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			source.TotalBytes,
		)
	}

	return bytesWritten, nil
}

// removeTempFile deletes a partial download, logging anything but a missing file.
func (s *ServiceImpl) removeTempFile(ctx context.Context, tempPath string) {
	err := os.Remove(tempPath)
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v", tempPath, err)
	}
}
