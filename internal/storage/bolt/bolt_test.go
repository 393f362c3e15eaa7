package bolt

import (
	"testing"

	"github.com/mmynk/smartfinance/internal/storage"
	"github.com/mmynk/smartfinance/internal/storage/storagetest"
)

func TestBoltStore(t *testing.T) {
	storagetest.Run(t, func(path string, schema storage.Schema) (storage.Store, error) {
		return New(path, schema)
	})
}

func TestItobOrdersNumerically(t *testing.T) {
	if string(itob(2)) >= string(itob(10)) {
		t.Error("expected itob(2) to sort before itob(10)")
	}
}
