package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hrdesk/internal/config"
)

// Client envuelve el cliente de MongoDB y la base configurada.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// ClientOptions construye las opciones del driver a partir de la configuración.
func ClientOptions(cfg config.RuntimeConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.DatabaseURL).
		SetAppName("hrdesk").
		SetConnectTimeout(cfg.DBConnectTimeout).
		SetServerSelectionTimeout(cfg.DBConnectTimeout).
		SetMaxPoolSize(20).
		SetMinPoolSize(1).
		SetMaxConnIdleTime(5 * time.Minute)
}

// Connect abre la conexión y verifica conectividad contra el primario.
func Connect(ctx context.Context, cfg config.RuntimeConfig) (*Client, error) {
	opts := ClientOptions(cfg)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("mongo options: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.DatabaseName()),
	}, nil
}

// Database devuelve la base de datos configurada.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping verifica conectividad con la base de datos.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close desconecta el cliente.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
