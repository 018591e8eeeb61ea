package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-hub-api/infrastructure/repository"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

const defaultPageSize = 500

// eventLister is the read side of the change event journal.
type eventLister interface {
	ListSince(ctx context.Context, after uint64, limit uint64) ([]domain.ChangeEvent, error)
}

func main() {
	after := flag.Uint64("after", 0, "exporta eventos com sequência maior que este valor")
	pageSize := flag.Uint64("page-size", defaultPageSize, "eventos lidos por consulta")
	migrateOnly := flag.Bool("migrate-only", false, "apenas cria o schema do journal")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetOutput(os.Stderr)
	logrus.Info("Iniciando script do journal...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := conn.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar o schema do journal")
	}
	logrus.Info("Schema do journal verificado")

	if *migrateOnly {
		return
	}

	startTime := time.Now()
	exported, last, err := exportEvents(ctx, repository.NewChangeEventRepository(conn), *after, *pageSize, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao exportar eventos")
	}

	logrus.WithFields(logrus.Fields{
		"exported":      exported,
		"last_sequence": last,
		"elapsed":       time.Since(startTime).String(),
	}).Info("Exportação concluída")
}

// exportEvents escreve um evento JSON por linha, paginando pela sequência.
// Devolve quantos eventos foram escritos e a última sequência vista.
func exportEvents(ctx context.Context, lister eventLister, after, pageSize uint64, w io.Writer) (int, uint64, error) {
	if pageSize == 0 {
		pageSize = defaultPageSize
	}

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	exported := 0

	for {
		events, err := lister.ListSince(ctx, after, pageSize)
		if err != nil {
			return exported, after, err
		}

		for _, event := range events {
			if err := encoder.Encode(event); err != nil {
				return exported, after, errors.Wrapf(err, "erro ao escrever evento %d", event.Sequence)
			}
			after = event.Sequence
			exported++
		}

		if uint64(len(events)) < pageSize {
			return exported, after, nil
		}

		if exported > 0 && exported%(int(pageSize)*10) == 0 {
			logrus.Infof("Progresso: %d eventos exportados", exported)
		}
	}
}
