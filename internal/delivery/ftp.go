package delivery

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// Credentials carries everything the remote step needs, with the password
// already decrypted. Instances are short-lived and never logged.
type Credentials struct {
	Server   string
	Username string
	Password string
	Protocol domain.FTPProtocol
	Timeout  time.Duration
}

// Uploader pushes an artifact file to a remote endpoint.
type Uploader interface {
	Upload(ctx context.Context, creds Credentials, fileName string, data []byte) error
}

// FTPUploader implements Uploader over plain FTP or FTP with explicit TLS.
type FTPUploader struct{}

// Upload connects, authenticates, and stores the file. The whole attempt is
// bounded by creds.Timeout; the caller classifies any returned error.
func (FTPUploader) Upload(ctx context.Context, creds Credentials, fileName string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, creds.Timeout)
	defer cancel()

	addr := creds.Server
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(creds.Timeout),
	}
	if creds.Protocol == domain.ProtocolFTPS {
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{ServerName: host}))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(creds.Username, creds.Password); err != nil {
		return fmt.Errorf("login as %s: %w", creds.Username, err)
	}

	if err := conn.Stor(fileName, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("store %s: %w", fileName, err)
	}
	return nil
}

// hostOnly strips a port for log fields.
func hostOnly(server string) string {
	if h, _, err := net.SplitHostPort(server); err == nil {
		return h
	}
	return strings.TrimSpace(server)
}
