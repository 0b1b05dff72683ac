package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zerobond-network/zerobond-daemon/internal/core/domain"
)

// DbManager holds all the badgerhold stores in a single data structure and
// implements the ports.RepoManager interface.
type DbManager struct {
	MarketStore *badgerhold.Store
	LedgerStore *badgerhold.Store

	marketRepository domain.MarketRepository
	ledgerRepository domain.LedgerRepository
}

// NewDbManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. Markets and the ledger
// root record live in dedicated directories.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	marketDb, err := createDb(baseDbDir+"/market", logger)
	if err != nil {
		return nil, fmt.Errorf("opening market db: %w", err)
	}

	ledgerDb, err := createDb(baseDbDir+"/ledger", logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	db := &DbManager{
		MarketStore: marketDb,
		LedgerStore: ledgerDb,
	}
	db.marketRepository = newMarketRepositoryImpl(db)
	db.ledgerRepository = newLedgerRepositoryImpl(db)
	return db, nil
}

func (d *DbManager) MarketRepository() domain.MarketRepository {
	return d.marketRepository
}

func (d *DbManager) LedgerRepository() domain.LedgerRepository {
	return d.ledgerRepository
}

func (d *DbManager) Close() {
	d.MarketStore.Close()
	d.LedgerStore.Close()
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (db *badgerhold.Store, err error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err = badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})

	return
}
