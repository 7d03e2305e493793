// Package storage reads settings documents from, and writes run reports to,
// an S3-compatible object store (AWS S3 or MinIO) through minio-go.
//
// Client is the four-call subset of the minio API the application needs;
// core/storage/mocks provides a testify mock of it.
//
// # Locations
//
// Settings sources and report locations are written "s3://bucket/key".
// ParseURI splits them; anything else is treated as a local path by callers.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, "settings", "esg.yaml")
//	err = storage.WriteObject(ctx, client, "reports", "runs/42.json", "application/json", data)
//
// WriteObject creates the bucket on first use.
package storage
