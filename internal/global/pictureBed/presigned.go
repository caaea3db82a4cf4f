package pictureBed

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type PresignedUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	FileURL   string            `json:"file_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// ObjectKey 缩略图 key：<prefix>/thumbnail/<registration_number>/<unix_nano><ext>
func (pb *PictureBed) ObjectKey(registrationNumber, filename string, now time.Time) (string, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedImageExt[ext]
	if !ok {
		return "", "", fmt.Errorf("不支持的图片格式 %q", ext)
	}
	key := path.Join(strings.Trim(pb.Prefix, "/"), "thumbnail", registrationNumber,
		fmt.Sprintf("%d%s", now.UnixNano(), ext))
	return strings.TrimLeft(key, "/"), contentType, nil
}

// PresignThumbnailUpload 前端直传 S3，后端只签名
func (pb *PictureBed) PresignThumbnailUpload(ctx context.Context, registrationNumber, filename string, expires time.Duration) (*PresignedUploadResponse, error) {
	if !pb.Enabled() {
		return nil, fmt.Errorf("S3 bucket 未配置")
	}
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	key, contentType, err := pb.ObjectKey(registrationNumber, filename, time.Now())
	if err != nil {
		return nil, err
	}
	client, err := pb.client(ctx)
	if err != nil {
		return nil, err
	}

	req, err := s3.NewPresignClient(client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("生成预签名上传 URL 失败: %w", err)
	}

	headers := map[string]string{"Content-Type": contentType}
	for k, v := range req.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return &PresignedUploadResponse{
		UploadURL: req.URL,
		FileKey:   key,
		FileURL:   pb.PublicURL(key),
		ExpiresAt: time.Now().Add(expires),
		Method:    req.Method,
		Headers:   headers,
	}, nil
}

// PresignDownload 私有 bucket 下的临时访问地址；完整 URL 原样返回
func (pb *PictureBed) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	if !pb.Enabled() {
		return key, nil
	}
	if expires <= 0 {
		expires = time.Hour
	}
	client, err := pb.client(ctx)
	if err != nil {
		return "", err
	}
	req, err := s3.NewPresignClient(client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(pb.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("生成预签名下载 URL 失败: %w", err)
	}
	return req.URL, nil
}
