package extractor

import "github.com/meshcompare/backend/internal/domain"

// prompts holds the instruction sent with each kind of extraction. Every
// prompt pins the exact JSON shape the decoder accepts.
var prompts = map[domain.CandidateKind]string{
	domain.KindSingle: `You read a textile technical sheet (fabric / "malha").
Answer with ONE JSON object and nothing else:
{"supplier": string, "name": string, "code": string,
 "technical_specs": {"width_m": number, "grammage_gsm": number, "yield_m_kg": number, "shrinkage_pct": number, "torque_pct": number},
 "composition": string, "features": [string],
 "price_table": [{"category": string, "price": number}]}
Use 0 for unknown numbers. Prices are cash prices per kg in BRL.`,

	domain.KindBatch: `You read a textile supplier catalog with many products.
Answer with a JSON array and nothing else, one element per product:
[{"supplier_name": string, "product_code": string, "product_name": string, "composition": string,
  "specs": {"width_m": number, "grammage_gsm": number, "yield_m_kg": number},
  "price_list": [{"category_normalized": string, "original_category_name": string, "price_cash_kg": number}]}]
category_normalized must be one of Branco, Claras, EscurasFortes, Mescla, Especiais, Neon, Preto when it applies.`,

	domain.KindConsolidated: `You read a consolidated textile price list.
Answer with a JSON array and nothing else, one element per product:
[{"supplier": string, "code": string, "name": string, "is_complement": boolean,
  "specs": {"width_m": number, "grammage_gsm": number, "yield_m_kg": number, "composition": string},
  "price_list": [{"category": string, "original_label": string, "price_cash": number}]}]
Mark ribanas, golas and punhos as is_complement true.`,

	domain.KindPriceUpdate: `You read a textile supplier price update.
Answer with a JSON array and nothing else, one element per product:
[{"supplier_name": string, "product_code": string, "product_name": string,
  "price_list": [{"category_normalized": string, "price_cash_kg": number}]}]
category_normalized must be one of Branco, Claras, EscurasFortes, Mescla, Especiais, Neon, Preto when it applies.`,
}
