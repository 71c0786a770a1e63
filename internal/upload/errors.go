package upload

import "errors"

// ErrNoBucket is returned when the uploader is built without a bucket name.
var ErrNoBucket = errors.New("s3 bucket name is empty")
