package simulator

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"txwatch/internal/core/models"
)

// Simulator synthesizes plausible transactions for demo data. Amounts
// straddle the flagging threshold and the location pool includes a city
// off the trusted list, so a generated batch exercises both outcomes of
// the rule.
type Simulator struct {
	rand *rand.Rand
}

func New(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rand: rand.New(rand.NewSource(seed))}
}

// Generate returns n synthetic transactions. Ids and the fraud flag are
// left blank; both are assigned on submission.
func (s *Simulator) Generate(n int) []models.Transaction {
	txs := make([]models.Transaction, n)
	for i := range txs {
		txs[i] = models.Transaction{
			UserID:    strconv.Itoa(1000 + s.rand.Intn(9000)),
			Amount:    s.randomAmount(),
			Currency:  "ZAR",
			Timestamp: time.Now().UTC(),
			Merchant:  s.randomMerchant(),
			Location:  s.randomLocation(),
			Category:  s.randomCategory(),
		}
	}
	return txs
}

func (s *Simulator) randomAmount() float64 {
	amount := 10 + s.rand.Float64()*14990
	return math.Round(amount*100) / 100
}

func (s *Simulator) randomMerchant() string {
	merchants := []string{"Checkers", "Woolworths", "Takealot", "Engen", "Uber", "Mr Price"}
	return merchants[s.rand.Intn(len(merchants))]
}

func (s *Simulator) randomLocation() string {
	// "Lagos" sits outside the trusted list on purpose.
	locations := []string{"Cape Town", "Johannesburg", "Durban", "Lagos"}
	return locations[s.rand.Intn(len(locations))]
}

func (s *Simulator) randomCategory() string {
	categories := []string{"Groceries", "Transport", "Entertainment", "Utilities", "Clothing"}
	return categories[s.rand.Intn(len(categories))]
}
