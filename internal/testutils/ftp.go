package testutils

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
)

// FTPFile is a file served by FTPServer.
type FTPFile struct {
	Data []byte
	// AdvertisedSize overrides the SIZE reply when non-zero.
	AdvertisedSize int64
	// StallAfter, when positive, sends that many bytes and then holds the
	// data connection open until the client closes it.
	StallAfter int
}

// FTPServer is a minimal passive-mode FTP server speaking just enough of the
// protocol for a single RETR per session.
type FTPServer struct {
	// Addr is the host:port of the control connection.
	Addr string
	// User and Pass, when set, are required at login.
	User, Pass string
	// NoSize makes the server refuse the SIZE command.
	NoSize bool

	files map[string]FTPFile
	ln    net.Listener
	done  chan struct{}
	wg    sync.WaitGroup
}

// StartFTPServer starts an FTP server on the loopback interface. Files are
// keyed by absolute path, e.g. "/pub/file.bin". configure runs before the
// server accepts connections.
func StartFTPServer(t *testing.T, files map[string]FTPFile, configure ...func(*FTPServer)) *FTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &FTPServer{
		Addr:  ln.Addr().String(),
		files: files,
		ln:    ln,
		done:  make(chan struct{}),
	}
	for _, fn := range configure {
		fn(s)
	}

	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)

	return s
}

// URL returns the ftp:// URL of path on this server.
func (s *FTPServer) URL(path string) string {
	return "ftp://" + s.Addr + path
}

// Close stops the server and waits for open sessions to end.
func (s *FTPServer) Close() {
	select {
	case <-s.done:
		return
	default:
	}
	close(s.done)
	s.ln.Close()
	s.wg.Wait()
}

func (s *FTPServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.session(conn)
		}()
	}
}

func (s *FTPServer) session(conn net.Conn) {
	defer conn.Close()

	go func() {
		<-s.done
		conn.Close()
	}()

	r := bufio.NewReader(conn)
	reply := func(code int, msg string) {
		fmt.Fprintf(conn, "%d %s\r\n", code, msg)
	}

	var data net.Listener
	defer func() {
		if data != nil {
			data.Close()
		}
	}()

	reply(220, "test server ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimRight(line, "\r\n"), " ")

		switch strings.ToUpper(cmd) {
		case "USER":
			if s.User != "" && arg != s.User {
				reply(530, "Login incorrect.")
				continue
			}
			reply(331, "Please specify the password.")
		case "PASS":
			if s.Pass != "" && arg != s.Pass {
				reply(530, "Login incorrect.")
				continue
			}
			reply(230, "Login successful.")
		case "TYPE":
			reply(200, "Switching to Binary mode.")
		case "SIZE":
			f, ok := s.files[arg]
			switch {
			case !ok:
				reply(550, "Could not get file size.")
			case s.NoSize:
				reply(502, "SIZE not implemented.")
			case f.AdvertisedSize != 0:
				reply(213, fmt.Sprint(f.AdvertisedSize))
			default:
				reply(213, fmt.Sprint(len(f.Data)))
			}
		case "EPSV":
			if data != nil {
				data.Close()
			}
			data, err = net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				reply(425, "Can't open data connection.")
				continue
			}
			reply(229, fmt.Sprintf("Entering Extended Passive Mode (|||%d|)", data.Addr().(*net.TCPAddr).Port))
		case "RETR":
			f, ok := s.files[arg]
			if !ok {
				reply(550, "Failed to open file.")
				continue
			}
			if data == nil {
				reply(425, "Use PASV or EPSV first.")
				continue
			}
			dc, err := data.Accept()
			data.Close()
			data = nil
			if err != nil {
				reply(425, "Can't open data connection.")
				continue
			}
			reply(150, "Opening BINARY mode data connection.")
			if s.send(dc, f) {
				reply(226, "Transfer complete.")
			} else {
				reply(426, "Connection closed; transfer aborted.")
			}
		case "QUIT":
			reply(221, "Goodbye.")
			return
		default:
			reply(502, "Command not implemented.")
		}
	}
}

// send writes f to the data connection and reports whether it completed.
func (s *FTPServer) send(dc net.Conn, f FTPFile) bool {
	defer dc.Close()

	if f.StallAfter <= 0 || f.StallAfter >= len(f.Data) {
		_, err := dc.Write(f.Data)
		return err == nil
	}

	if _, err := dc.Write(f.Data[:f.StallAfter]); err != nil {
		return false
	}

	closed := make(chan struct{})
	go func() {
		io.Copy(io.Discard, dc)
		close(closed)
	}()
	select {
	case <-closed:
	case <-s.done:
	}
	return false
}
