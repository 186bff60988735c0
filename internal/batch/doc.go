// Package batch provides the orchestration logic that captions every item
// folder under a base path.
//
// # Manager
//
// The Manager coordinates the whole run:
//
//  1. Validate settings and resolve the preset
//  2. Load fonts and the hyphenator (fetching a dictionary if configured)
//  3. Enumerate the item folders of the base path
//  4. Per folder: skip an existing output unless forced, read the caption,
//     compose and write the output image
//
// # Basic Usage
//
//	manager := batch.NewManager(settings, batch.Deps{}, func(event batch.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, "/data/items"); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(manager.Report().Summary())
//
// # Failure Policy
//
// By default the first failing folder aborts the run, matching a plain
// sequential loop. With settings.ContinueOnError every folder is
// attempted, the Report lists each outcome and Run returns an error
// wrapping ErrBatchFailed.
//
// # Concurrency
//
// settings.MaxConcurrentFolders bounds how many folders are processed at
// once. The default of 1 processes folders one after another in listing
// order.
//
// # Retry Logic
//
// Only the dictionary download is retried, with exponential backoff
// configurable via settings.DownloadMaxRetries and
// settings.DownloadRetryCooldown. Folder failures are never retried.
package batch
