// Package mailer 按模板 ID + 字段表发送邮件，模板内容由邮件服务商维护
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"competition-jury-system/config"
	"competition-jury-system/internal/global/httpclient"
	"competition-jury-system/internal/global/logger"

	"github.com/go-resty/resty/v2"
)

const TemplateJuryInvitation = "jury_invitation"

type Sender interface {
	Send(ctx context.Context, templateID, to string, fields map[string]string) error
}

type sendRequest struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	TemplateID string            `json:"template_id"`
	Fields     map[string]string `json:"fields"`
}

// APISender 通过 HTTP API 发送
type APISender struct {
	client *resty.Client
	url    string
	token  string
	from   string
}

func (s *APISender) Send(ctx context.Context, templateID, to string, fields map[string]string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.token).
		SetBody(sendRequest{From: s.from, To: to, TemplateID: templateID, Fields: fields}).
		Post(s.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("邮件服务返回 %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogSender 未配置邮件服务时仅记录日志
type LogSender struct {
	log *slog.Logger
}

func (s *LogSender) Send(_ context.Context, templateID, to string, fields map[string]string) error {
	s.log.Info("邮件未发送（未配置邮件服务）", "template", templateID, "to", to, "fields", fields)
	return nil
}

// New 依赖 httpclient.Init 已执行
func New() Sender {
	c := config.Get().Mail
	if c.APIURL == "" || httpclient.Client == nil {
		return &LogSender{log: logger.New("Mailer")}
	}
	return &APISender{
		client: httpclient.Client,
		url:    c.APIURL,
		token:  c.APIToken,
		from:   c.From,
	}
}
