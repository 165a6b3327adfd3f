package service

import (
	"encoding/json"

	"github.com/streadway/amqp"
)

const QueueReportNotice = "clipnest.report_notice.queue"

// MailNotice 投递给消费者的邮件通知消息
type MailNotice struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	ReportID uint64 `json:"report_id"`
}

// NoticePublisher 由report服务在软删除举报内容后调用，测试里可替换成桩
type NoticePublisher interface {
	PublishMailNotice(notice MailNotice) error
}

type amqpNoticePublisher struct {
	conn *amqp.Connection
}

// NewNoticePublisher 建连时顺手声明队列（幂等），之后每次发布新开channel
func NewNoticePublisher(conn *amqp.Connection) (NoticePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(QueueReportNotice, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &amqpNoticePublisher{conn: conn}, nil
}

func (p *amqpNoticePublisher) PublishMailNotice(notice MailNotice) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return ch.Publish(
		"",                // exchange
		QueueReportNotice, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}
