// Package delivery writes built artifacts to durable local storage and, when
// a player app is configured for it, uploads them to the player's FTP
// endpoint.
//
// The local write is mandatory and independent of remote delivery. Remote
// failures downgrade the run to partial status; they never surface as errors
// past Deliver and never fail a scheduler tick. A failed status is reserved
// for the local write itself going wrong.
package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hastla007/webradio-sub000/internal/artifact"
	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/pkg/logger"
	"github.com/hastla007/webradio-sub000/internal/vault"
)

// Target is the combination of profile, optional player app, and trigger for
// one delivery run.
type Target struct {
	Profile *domain.ExportProfile
	Player  *domain.PlayerApp // nil when the profile has no player assigned
	Trigger domain.ExportTrigger
}

// Archiver mirrors delivered artifacts to long-term storage. Best-effort:
// archive failures are logged and never change the delivery status.
type Archiver interface {
	Archive(ctx context.Context, fileName string, data []byte) error
}

// Client performs the two delivery steps for a built artifact.
type Client struct {
	outputDir      string
	defaultTimeout time.Duration
	vault          *vault.Vault
	uploader       Uploader
	archiver       Archiver // optional
}

// NewClient creates a delivery client. The default timeout bounds remote
// attempts for players without a configured timeout.
func NewClient(outputDir string, defaultTimeout time.Duration, v *vault.Vault) *Client {
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &Client{
		outputDir:      outputDir,
		defaultTimeout: defaultTimeout,
		vault:          v,
		uploader:       FTPUploader{},
	}
}

// SetUploader replaces the FTP transport. Used by tests.
func (c *Client) SetUploader(u Uploader) { c.uploader = u }

// SetArchiver enables the optional artifact archive mirror.
func (c *Client) SetArchiver(a Archiver) { c.archiver = a }

// OutputDirectory returns the configured local output root.
func (c *Client) OutputDirectory() string { return c.outputDir }

// Deliver writes the artifact locally and attempts remote upload when the
// target's player is configured for it. The outcome is always expressed in
// the returned result; Deliver never returns an error value.
func (c *Client) Deliver(ctx context.Context, a *artifact.Artifact, target Target) *domain.DeliveryResult {
	result := &domain.DeliveryResult{
		RunID:           uuid.New().String(),
		ProfileID:       target.Profile.ID,
		ProfileName:     target.Profile.Name,
		Trigger:         target.Trigger,
		StationCount:    a.StationCount,
		OutputDirectory: c.outputDir,
		StartedAt:       time.Now(),
	}
	defer func() { result.FinishedAt = time.Now() }()

	// Step 1: mandatory local persistence.
	if err := c.writeLocal(a); err != nil {
		result.Status = domain.DeliveryFailed
		result.Error = fmt.Sprintf("local write: %v", err)
		logger.Error("artifact local write failed",
			"profile_id", target.Profile.ID,
			"output_dir", c.outputDir,
			"error", err.Error())
		return result
	}
	result.Files = append(result.Files, domain.DeliveredFile{FileName: a.FileName})

	// Best-effort archive mirror; never affects status.
	if c.archiver != nil {
		if err := c.archiver.Archive(ctx, a.FileName, a.Payload); err != nil {
			logger.Warn("artifact archive failed",
				"profile_id", target.Profile.ID,
				"file", a.FileName,
				"error", err.Error())
		}
	}

	// Step 2: remote delivery, only when configured and complete.
	if target.Player == nil || !target.Player.FTPEnabled {
		result.Status = domain.DeliverySuccess
		return result
	}

	if err := c.upload(ctx, a, target.Player); err != nil {
		result.Status = domain.DeliveryPartial
		result.Error = err.Error()
		logger.Warn("remote delivery failed",
			"profile_id", target.Profile.ID,
			"player_id", target.Player.ID,
			"host", hostOnly(target.Player.FTPServer),
			"class", errorClass(err),
			"error", err.Error())
		return result
	}

	result.Files[0].FTPUploaded = true
	result.Status = domain.DeliverySuccess
	return result
}

// upload decrypts the player's password and pushes the artifact. Any error,
// credential or network, leaves the local write intact and is downgraded by
// the caller.
func (c *Client) upload(ctx context.Context, a *artifact.Artifact, player *domain.PlayerApp) error {
	if !player.HasCompleteCredentials() {
		return ErrIncompleteCredentials
	}

	password, err := c.vault.Decrypt(player.FTPPassword)
	if err != nil {
		// A ciphertext that no longer decrypts is a hard credential error,
		// never silently treated as "no credential".
		return fmt.Errorf("decrypt ftp password: %w", err)
	}

	creds := Credentials{
		Server:   player.FTPServer,
		Username: player.FTPUsername,
		Password: password,
		Protocol: player.FTPProtocol,
		Timeout:  c.timeoutFor(player),
	}
	if creds.Protocol == "" {
		creds.Protocol = domain.ProtocolFTP
	}

	return c.uploader.Upload(ctx, creds, a.FileName, a.Payload)
}

// timeoutFor coerces a missing or non-positive player timeout to the
// configured default rather than rejecting the delivery.
func (c *Client) timeoutFor(player *domain.PlayerApp) time.Duration {
	if player.FTPTimeoutMs <= 0 {
		return c.defaultTimeout
	}
	return time.Duration(player.FTPTimeoutMs) * time.Millisecond
}

func (c *Client) writeLocal(a *artifact.Artifact) error {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(c.outputDir, a.FileName)
	if err := os.WriteFile(path, a.Payload, 0o644); err != nil {
		return err
	}
	return nil
}
