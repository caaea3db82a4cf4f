package pictureBed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"competition-jury-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PictureBed 作品缩略图存放在 S3 兼容存储中，数据库只保存对象 key
type PictureBed struct {
	Endpoint     string
	BaseURL      string
	Bucket       string
	Region       string
	Prefix       string
	UsePathStyle bool

	accessKey string
	secretKey string

	mu       sync.Mutex
	s3Client *s3.Client
}

var (
	defaultBed  *PictureBed
	defaultOnce sync.Once
)

// Default 按全局配置构建，未配置 bucket 时 Enabled 返回 false
func Default() *PictureBed {
	defaultOnce.Do(func() {
		c := config.Get().S3
		defaultBed = &PictureBed{
			Endpoint:     c.Endpoint,
			BaseURL:      c.BaseURL,
			Bucket:       c.Bucket,
			Region:       c.Region,
			Prefix:       c.Prefix,
			UsePathStyle: c.UsePathStyle,
			accessKey:    c.AccessKey,
			secretKey:    c.SecretAccessKey,
		}
	})
	return defaultBed
}

func (pb *PictureBed) Enabled() bool {
	return pb != nil && pb.Bucket != ""
}

func (pb *PictureBed) client(ctx context.Context) (*s3.Client, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.s3Client != nil {
		return pb.s3Client, nil
	}

	region := pb.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if pb.accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pb.accessKey, pb.secretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载 S3 配置失败: %w", err)
	}

	pb.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	return pb.s3Client, nil
}

// PublicURL 拼出对象的公开访问地址；已是完整 URL 的直接返回
func (pb *PictureBed) PublicURL(key string) string {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	base := strings.TrimRight(pb.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}
