// Package source opens the remote stream of a download.
//
// Supported protocols are http, https and ftp. A URL must start with one of
// the three prefixes exactly:
//
//	if err := source.ValidateProtocol(rawURL); err != nil {
//	    // err lists the candidate forms of rawURL
//	}
//
//	stream, err := source.Open(ctx, rawURL, source.Options{
//	    UserAgent:      "WinDL/1.0",
//	    ConnectTimeout: 30 * time.Second,
//	})
//	defer stream.Body.Close()
//	// stream.Size is 0 when the server does not advertise one
//
// Only connection establishment has a timeout. Reads observe ctx: HTTP
// through the request context, FTP by expiring the data connection's
// deadline when ctx is done.
package source
