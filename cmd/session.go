package cmd

import (
	"github.com/gregLibert/scprobe/pkg/iso7816"
	"github.com/gregLibert/scprobe/pkg/pcsc"
)

// session is an open PC/SC context with one connected card.
type session struct {
	ctx  *pcsc.Context
	conn *pcsc.Conn
}

// openSession connects to the configured reader.
func openSession() (*session, error) {
	mode, err := pcsc.ParseShareMode(cfg.ShareMode)
	if err != nil {
		return nil, err
	}
	protocols, err := pcsc.ParseProtocols(cfg.Protocols)
	if err != nil {
		return nil, err
	}

	ctx, err := pcsc.Establish(pcsc.WithCatalog(codes), pcsc.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	readers, err := ctx.Readers()
	if err != nil {
		releaseContext(ctx)
		return nil, err
	}
	reader, err := pcsc.SelectReader(readers, cfg.Reader, cfg.ReaderIndex)
	if err != nil {
		releaseContext(ctx)
		return nil, err
	}

	logger.Info("using reader", "reader", reader)
	conn, err := ctx.Connect(reader, mode, protocols)
	if err != nil {
		releaseContext(ctx)
		return nil, err
	}
	return &session{ctx: ctx, conn: conn}, nil
}

func (s *session) client() *iso7816.Client {
	return iso7816.NewClient(s.conn,
		iso7816.WithMaxContinuations(cfg.MaxContinuations),
		iso7816.WithCatalog(codes),
		iso7816.WithLogger(logger),
	)
}

func (s *session) Close() {
	if err := s.conn.Disconnect(); err != nil {
		logger.Warn("failed to disconnect card", "error", err)
	}
	releaseContext(s.ctx)
}

func releaseContext(ctx *pcsc.Context) {
	if err := ctx.Release(); err != nil {
		logger.Warn("failed to release context", "error", err)
	}
}
