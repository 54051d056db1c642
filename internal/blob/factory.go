package blob

import (
	"context"
	"fmt"
	"os"

	"mousetrack/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
// Mirroring is optional: when MOUSETRACK_BLOB_DRIVER is unset, Open returns
// a nil store and the service keeps photos on the primary filesystem only.
//
//	MOUSETRACK_BLOB_DRIVER: fs|s3|memory (unset disables mirroring)
//	MOUSETRACK_BLOB_FS_ROOT: directory root when driver=fs (default ./mirror)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("MOUSETRACK_BLOB_DRIVER")
	if driver == "" {
		return nil, nil
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("MOUSETRACK_BLOB_FS_ROOT")
		if root == "" {
			root = "./mirror"
		}
		return NewFilesystem(root)
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
