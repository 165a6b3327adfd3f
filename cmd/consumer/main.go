package main

import (
	"encoding/json"
	"log"

	"clipnest/internal/config"
	"clipnest/internal/service"
	"clipnest/pkg/logger"
	"clipnest/pkg/mailer"
	"clipnest/pkg/rabbitmq"

	"github.com/streadway/amqp"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf(".env文件加载失败: %v", err)
	}
	logger.InitLogger()

	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	logger.Log.Info("RabbitMQ连接成功")

	consumeMailNotices(rabbitMQConn, mailer.NewMailer())
}

// 邮件通知消费者：1、开channel并声明队列 2、手动ack模式注册消费者
// 3、消息坏了（反序列化失败）直接丢弃，发信失败requeue重试
func consumeMailNotices(conn *amqp.Connection, m *mailer.Mailer) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(service.QueueReportNotice, true, false, false, false, nil); err != nil {
		logger.Log.Fatalf("队列声明失败: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueueReportNotice, // queue
		"",                        // consumer
		false,                     // auto-ack，手动确认
		false,                     // exclusive
		false,                     // no-local
		false,                     // no-wait
		nil,                       // args
	)
	if err != nil {
		logger.Log.Fatalf("注册消费者失败: %v", err)
	}

	forever := make(chan bool)
	go func() {
		for d := range msgs {
			var notice service.MailNotice
			if err := json.Unmarshal(d.Body, &notice); err != nil {
				// 坏消息requeue只会死循环，直接丢弃
				logger.Log.WithError(err).Error("通知消息反序列化失败，消息已丢弃")
				d.Nack(false, false)
				continue
			}

			logCtx := logger.Log.WithFields(map[string]interface{}{
				"report_id": notice.ReportID,
				"to":        notice.To,
			})
			if err := m.Send(notice.To, notice.Subject, notice.Body); err != nil {
				logCtx.WithError(err).Error("通知邮件发送失败，消息重新入队")
				d.Nack(false, true)
				continue
			}

			logCtx.Info("通知邮件发送成功")
			d.Ack(false)
		}
	}()

	logger.Log.Info(" [*] 等待通知消息中. 按 CTRL+C 退出")
	<-forever
}
