package bankparser

// Registry returns the handlers in dispatch priority order.
//
// Extension-constrained formats come first. Caisse d'Épargne precedes Société
// Générale and Banque Populaire precedes BNP because their headers contain the
// discriminants of the latter.
func Registry() []Handler {
	return []Handler{
		CAMT(),
		PDF(),
		CreditAgricole(),
		CaisseDEpargne(),
		SocieteGenerale(),
		BanquePopulaire(),
		BNP(),
		Wise(),
		Monzo(),
		N26(),
		MCB(),
		HSBC(),
	}
}

// Names lists the bank names of the registered handlers.
func Names() []string {
	handlers := Registry()
	names := make([]string, 0, len(handlers))
	for _, h := range handlers {
		names = append(names, h.BankName)
	}
	return names
}
