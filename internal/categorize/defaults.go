package categorize

// DefaultRules returns the built-in keyword rules in match order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: Groceries, Keywords: []string{
			"supermercato", "supermarket", "grocery", "coop", "conad", "esselunga",
			"carrefour", "lidl", "aldi", "eurospin", "macelleria", "pescheria",
			"panificio", "frutta", "verdura",
		}},
		{Category: Transport, Keywords: []string{
			"benzina", "diesel", "carburante", "q8", "esso", "shell", "tamoil",
			"metro", "autobus", "treno", "train", "trenitalia", "trasporto", "taxi",
			"uber", "noleggio", "parcheggio", "parking", "autostrada", "telepass",
			"pedaggio", "bollo auto",
		}},
		{Category: Dining, Keywords: []string{
			"ristorante", "restaurant", "pizzeria", "trattoria", "osteria",
			"caffè", "caffe", "gelateria", "mcdonald", "mc donald", "burger",
			"deliveroo", "just eat", "glovo", "sushi", "food",
		}},
		{Category: Utilities, Keywords: []string{
			"bolletta", "enel", "eni", "luce", "gas", "acqua", "water", "utility",
			"elettricità", "riscaldamento", "telecom", "vodafone", "fastweb",
			"iliad", "internet", "fibra",
		}},
		{Category: Housing, Keywords: []string{
			"affitto", "canone locazione", "mutuo", "mortgage", "condominio",
			"spese condominiali",
		}},
		{Category: Shopping, Keywords: []string{
			"amazon", "ebay", "aliexpress", "zalando", "zara", "h&m", "uniqlo",
			"decathlon", "nike", "adidas", "ikea", "mediaworld", "unieuro",
			"abbigliamento", "scarpe", "shopping",
		}},
		{Category: Health, Keywords: []string{
			"farmacia", "pharmacy", "medico", "doctor", "ospedale", "hospital",
			"dentista", "analisi cliniche", "visita medica", "ticket sanitario",
			"health",
		}},
		{Category: Lifestyle, Keywords: []string{
			"palestra", "fitness", "gym", "piscina", "sport", "netflix", "spotify",
			"disney", "prime video", "youtube", "cinema", "teatro", "concerto",
			"museo", "videogiochi", "playstation", "subscription",
		}},
		{Category: Income, Keywords: []string{
			"stipendio", "salary", "payroll", "emolumenti", "pensione", "bonus",
			"freelance", "compenso",
		}},
		{Category: Savings, Keywords: []string{
			"investimento", "risparmio", "conto deposito", "piano accumulo",
			"fondi", "obbligazioni", "acquisto azioni", "savings",
		}},
	}
}
