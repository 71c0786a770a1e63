// Package upload copies rendered reports to S3-compatible object storage.
//
// Credentials come from the explicit access key pair when one is configured,
// otherwise from the default AWS credential chain. A custom endpoint switches
// to path-style addressing so MinIO and similar servers work.
package upload
