package source

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/ligustah/windl/internal/failure"
)

const defaultFTPPort = "21"

// ftpBody is the data connection of a RETR together with its control
// connection.
type ftpBody struct {
	resp *ftp.Response
	conn *ftp.ServerConn
	stop func() bool
}

func (b *ftpBody) Read(p []byte) (int, error) {
	return b.resp.Read(p)
}

func (b *ftpBody) Close() error {
	b.stop()
	err := b.resp.Close()
	if qerr := b.conn.Quit(); err == nil {
		err = qerr
	}
	return err
}

func openFTP(ctx context.Context, rawURL string, opts Options, log *slog.Logger) (*Stream, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, failure.New(failure.StreamOpenFailed, "parse", err)
	}

	addr := u.Host
	if u.Port() == "" {
		addr = net.JoinHostPort(u.Hostname(), defaultFTPPort)
	}

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(opts.ConnectTimeout),
	)
	if err != nil {
		return nil, failure.New(failure.ConnectionOpenFailed, "connect", err)
	}

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return nil, failure.New(failure.StreamOpenFailed, "login", err)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	// Servers without SIZE support leave the size unknown.
	var size uint64
	if n, err := conn.FileSize(path); err == nil && n > 0 {
		size = uint64(n)
	} else if err != nil {
		log.Debug("ftp size unavailable", "path", path, "error", err)
	}

	resp, err := conn.Retr(path)
	if err != nil {
		conn.Quit()
		return nil, failure.New(failure.StreamOpenFailed, "RETR", fmt.Errorf("%s: %w", path, err))
	}

	// Expire the data connection when ctx is done so a blocked Read returns.
	stop := context.AfterFunc(ctx, func() {
		resp.SetDeadline(time.Now())
	})

	return &Stream{
		Body: &ftpBody{resp: resp, conn: conn, stop: stop},
		Size: size,
	}, nil
}
