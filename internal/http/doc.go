// Package http provides the HTTP client used to fetch hyphenation pattern
// dictionaries on first use.
//
// The Client in this package handles:
//   - User-Agent headers
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Download a dictionary with progress callback
//	client.DownloadFile(ctx, dictURL, "/path/to/hyph_es.dic", func(written, total int64) {
//	    fmt.Printf("%d bytes\n", written)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
