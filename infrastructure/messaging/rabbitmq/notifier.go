package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// publisher é o subconjunto de *amqp.Channel usado pelo notifier
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Notifier publica cada resultado de despacho em um exchange topic, com a
// routing key dispatch.<resultado>.
type Notifier struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  publisher
	exchange string
}

// Dial conecta ao broker e declara o exchange
func Dial(cfg config.AMQP) (*Notifier, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao conectar ao broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "erro ao abrir canal no broker")
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "erro ao declarar exchange %s", cfg.Exchange)
	}

	logrus.WithField("exchange", cfg.Exchange).Info("Notificações de despacho habilitadas")

	n := newNotifier(ch, cfg.Exchange)
	n.conn = conn
	return n, nil
}

func newNotifier(ch publisher, exchange string) *Notifier {
	return &Notifier{
		channel:  ch,
		exchange: exchange,
	}
}

// RoutingKey devolve a chave usada para o resultado
func RoutingKey(result domain.CommitResult) string {
	return fmt.Sprintf("dispatch.%s", result)
}

func (n *Notifier) Notify(ctx context.Context, notification domain.DispatchNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return errors.Wrap(err, "erro ao codificar notificação")
	}

	// *amqp.Channel não é seguro para uso concorrente
	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.Publish(
		n.exchange,
		RoutingKey(notification.Result),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    notification.EntryID,
			Timestamp:    notification.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "erro ao publicar notificação da entrada %s", notification.EntryID)
	}

	return nil
}

func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.channel.Close(); err != nil {
		return err
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
