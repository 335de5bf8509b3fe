package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/TemirB/orders-cache/internal/domain"
)

func generateOrder(now time.Time) domain.Order {
	uid := uuid.NewString()
	track := fmt.Sprintf("WBILTEST%d", rand.Intn(10000))

	items := make([]domain.Item, 1+rand.Intn(3))
	goods := 0
	for i := range items {
		price := rand.Intn(500) + 50
		sale := rand.Intn(50)
		total := price * (100 - sale) / 100
		goods += total
		items[i] = domain.Item{
			ChrtID:      rand.Intn(10000000),
			TrackNumber: track,
			Price:       price,
			RID:         uuid.NewString(),
			Name:        "Test Product",
			Sale:        sale,
			Size:        "0",
			TotalPrice:  total,
			NmID:        rand.Intn(1000000),
			Brand:       "Test Brand",
			Status:      202,
		}
	}
	deliveryCost := rand.Intn(500) + 100

	return domain.Order{
		OrderUID:    uid,
		TrackNumber: track,
		Entry:       "WBIL",
		Delivery: domain.Delivery{
			Name:    "Test Testov",
			Phone:   fmt.Sprintf("+7%d", 9000000000+rand.Intn(100000000)),
			Zip:     fmt.Sprintf("%d", 100000+rand.Intn(900000)),
			City:    "Moscow",
			Address: fmt.Sprintf("Street %d", rand.Intn(100)),
			Region:  "Moscow Region",
			Email:   fmt.Sprintf("test%d@example.com", rand.Intn(1000)),
		},
		Payment: domain.Payment{
			Transaction:  uid,
			Currency:     "USD",
			Provider:     "wbpay",
			Amount:       goods + deliveryCost,
			PaymentDT:    now.Unix(),
			Bank:         "alpha",
			DeliveryCost: deliveryCost,
			GoodsTotal:   goods,
		},
		Items:           items,
		Locale:          "en",
		CustomerID:      "test",
		DeliveryService: "meest",
		ShardKey:        fmt.Sprintf("%d", rand.Intn(10)),
		SmID:            rand.Intn(100),
		DateCreated:     now.UTC().Truncate(time.Second),
		OofShard:        "1",
	}
}
