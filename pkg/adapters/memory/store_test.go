package memory_test

import (
	"testing"

	"github.com/senacirak/DEU-DevClubGames/pkg/adapters/memory"
	contract "github.com/senacirak/DEU-DevClubGames/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	contract.RunSessionStoreContract(t, store)
}
