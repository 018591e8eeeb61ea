package s3report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/vfg2006/campaign-hub-api/internal/config"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader grava os relatórios exportados em um bucket S3
type Uploader struct {
	client putObjectAPI
	bucket string
	prefix string
}

// New carrega as credenciais pela cadeia padrão da AWS (env, profile, role)
func New(ctx context.Context, cfg config.Report) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao carregar configuração da AWS")
	}

	return newUploader(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func newUploader(client putObjectAPI, bucket, prefix string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Upload grava body em prefix/key e devolve a URI s3:// do objeto
func (u *Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	objectKey := path.Join(u.prefix, key)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", errors.Wrapf(err, "erro ao enviar %s para o bucket %s", objectKey, u.bucket)
	}

	return fmt.Sprintf("s3://%s/%s", u.bucket, objectKey), nil
}
