// Package dest decides where a download lands.
//
// FileName derives the destination name from the URL, Confirm asks before
// an existing file is replaced and Store creates the Sink the transfer
// writes to. A Store is either a local directory or a gocloud bucket:
//
//	store, err := dest.OpenStore(ctx, ".", "")          // working directory
//	store, err := dest.OpenStore(ctx, "", "s3://bucket") // bucket
//	defer store.Close()
//
//	sink, err := store.Create(ctx, name)
//	// write to sink, then
//	err = sink.Commit() // or sink.Abort()
//
// A local file is left partial when a transfer fails. A bucket write is
// aborted instead, since an object only becomes visible once committed.
package dest
