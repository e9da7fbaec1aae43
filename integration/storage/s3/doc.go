// Package s3 loads configuration layers from Amazon S3 and S3-compatible services.
//
// ConfigSource implements config.Source, so a bucket object can be layered
// between local files and the process environment:
//
//	client, err := s3.NewClient(ctx, s3.Config{
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000", // MinIO
//		ForcePathStyle: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	remote, err := s3.NewConfigSource(client, "acme-config", "billing/production.env")
//	if err != nil {
//		return err
//	}
//
//	var cfg AppConfig
//	err = config.Load(&cfg, config.WithSources(config.Optional(remote)))
//
// Objects ending in .json must hold a flat JSON object. Numbers and booleans
// are converted to their string form. Any other object is read as dotenv.
//
// A missing object fails with config.ErrSourceNotFound. Wrapping the source
// with config.Optional turns that into an empty layer. Other failures map to
// ErrBucketNotFound, ErrAccessDenied, ErrServiceUnavailable,
// ErrOperationTimeout or ErrOperationCanceled.
package s3
