package main

import (
	"context"
	"log"
	"time"

	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
)

type seedCard struct {
	name        string
	rarity      string
	description string
}

type seedPack struct {
	name        string
	code        string
	releaseDate string
	cards       []seedCard
}

// Стартовый набор паков и карт для локальной разработки
var packs = []seedPack{
	{
		name:        "スカーレットex",
		code:        "SV1S",
		releaseDate: "2023-01-20",
		cards: []seedCard{
			{"ピカチュウex", "RR", "でんきタイプのポケモン"},
			{"リザードンex", "RR", "ほのおタイプのポケモン"},
			{"ミュウツーex", "RR", "エスパータイプのポケモン"},
			{"コライドンex", "RR", "かくとうタイプのポケモン"},
			{"ニャオハ", "C", "くさタイプのポケモン"},
		},
	},
	{
		name:        "バイオレットex",
		code:        "SV1V",
		releaseDate: "2023-01-20",
		cards: []seedCard{
			{"ミライドンex", "RR", "でんきタイプのポケモン"},
			{"ゲンガーex", "RR", "あくタイプのポケモン"},
			{"ルカリオex", "RR", "かくとうタイプのポケモン"},
			{"ホゲータ", "C", "ほのおタイプのポケモン"},
			{"クワッス", "C", "みずタイプのポケモン"},
		},
	},
	{
		name:        "トリプレットビート",
		code:        "SV2a",
		releaseDate: "2023-03-10",
		cards: []seedCard{
			{"カイリューex", "RR", "ドラゴンタイプのポケモン"},
			{"ギャラドスex", "RR", "みずタイプのポケモン"},
			{"イーブイ", "C", "ノーマルタイプのポケモン"},
			{"ブースター", "U", "ほのおタイプのポケモン"},
			{"シャワーズ", "U", "みずタイプのポケモン"},
		},
	},
	{
		name:        "スノーハザード",
		code:        "SV2P",
		releaseDate: "2023-04-14",
		cards:       nil,
	},
	{
		name:        "クレイバースト",
		code:        "SV2D",
		releaseDate: "2023-04-14",
		cards:       nil,
	},
}

func main() {
	cfg := config.LoadConfig()

	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, p := range packs {
		var packID string
		err := db.Pool.QueryRow(ctx, `
			INSERT INTO packs (name, code, release_date)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET code = EXCLUDED.code
			RETURNING id
		`, p.name, p.code, p.releaseDate).Scan(&packID)
		if err != nil {
			log.Fatalf("❌ Ошибка при добавлении пака %s: %v", p.name, err)
		}

		for _, card := range p.cards {
			_, err := db.Pool.Exec(ctx, `
				INSERT INTO cards (pack_id, name, rarity, description)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (pack_id, name) DO NOTHING
			`, packID, card.name, card.rarity, card.description)
			if err != nil {
				log.Fatalf("❌ Ошибка при добавлении карты %s: %v", card.name, err)
			}
		}

		log.Printf("✅ Пак %s (%d карт) добавлен", p.name, len(p.cards))
	}

	log.Println("✅ Начальные данные загружены")
}
