// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package brand

var (
	bankingKeywords  = []string{"bank", "banking", "loan", "credit", "debit", "account", "transfer", "netbanking"}
	paymentKeywords  = []string{"payment", "pay", "wallet", "checkout", "invoice", "transaction"}
	techKeywords     = []string{"cloud", "software", "developer", "sign in", "account"}
	socialKeywords   = []string{"friends", "follow", "share", "message", "profile"}
	commerceKeywords = []string{"shop", "cart", "order", "deal", "shipping", "delivery"}
	cryptoKeywords   = []string{"crypto", "bitcoin", "wallet", "exchange", "trade"}
	shippingKeywords = []string{"shipping", "package", "tracking", "delivery", "parcel"}
	mediaKeywords    = []string{"stream", "watch", "subscription", "playlist"}
)

// defaultEntries is the built-in protected-brand set used when no brand file
// is configured. Curated toward the brands most often impersonated.
func defaultEntries() []Entry {
	return []Entry{
		// Financial
		{Key: "paypal", CanonicalDomains: []string{"paypal.com"}, Industry: "payments", ContentKeywords: paymentKeywords},
		{Key: "chase", CanonicalDomains: []string{"chase.com"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "bankofamerica", CanonicalDomains: []string{"bankofamerica.com", "bofa.com"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "wellsfargo", CanonicalDomains: []string{"wellsfargo.com"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "citibank", CanonicalDomains: []string{"citibank.com", "citi.com"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "americanexpress", CanonicalDomains: []string{"americanexpress.com", "amex.com"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "visa", CanonicalDomains: []string{"visa.com"}, Industry: "payments", ContentKeywords: paymentKeywords},
		{Key: "mastercard", CanonicalDomains: []string{"mastercard.com"}, Industry: "payments", ContentKeywords: paymentKeywords},
		{Key: "kotak", CanonicalDomains: []string{"kotak.com", "kotak.bank.in"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "hdfc", CanonicalDomains: []string{"hdfcbank.com", "hdfc.bank.in"}, Industry: "banking", ContentKeywords: bankingKeywords},
		{Key: "icici", CanonicalDomains: []string{"icicibank.com"}, Industry: "banking", ContentKeywords: bankingKeywords},

		// Tech
		{Key: "google", CanonicalDomains: []string{"google.com", "gmail.com", "youtube.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "microsoft", CanonicalDomains: []string{"microsoft.com", "outlook.com", "live.com", "office.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "apple", CanonicalDomains: []string{"apple.com", "icloud.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "amazon", CanonicalDomains: []string{"amazon.com", "amazon.in", "aws.amazon.com"}, Industry: "commerce", ContentKeywords: commerceKeywords},
		{Key: "facebook", CanonicalDomains: []string{"facebook.com", "fb.com"}, Industry: "social", ContentKeywords: socialKeywords},
		{Key: "meta", CanonicalDomains: []string{"meta.com"}, Industry: "social", ContentKeywords: socialKeywords},
		{Key: "instagram", CanonicalDomains: []string{"instagram.com"}, Industry: "social", ContentKeywords: socialKeywords},
		{Key: "whatsapp", CanonicalDomains: []string{"whatsapp.com"}, Industry: "social", ContentKeywords: socialKeywords},
		{Key: "linkedin", CanonicalDomains: []string{"linkedin.com"}, Industry: "social", ContentKeywords: socialKeywords},
		{Key: "netflix", CanonicalDomains: []string{"netflix.com"}, Industry: "media", ContentKeywords: mediaKeywords},
		{Key: "spotify", CanonicalDomains: []string{"spotify.com"}, Industry: "media", ContentKeywords: mediaKeywords},
		{Key: "github", CanonicalDomains: []string{"github.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "dropbox", CanonicalDomains: []string{"dropbox.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "slack", CanonicalDomains: []string{"slack.com"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "zoom", CanonicalDomains: []string{"zoom.us"}, Industry: "tech", ContentKeywords: techKeywords},
		{Key: "adobe", CanonicalDomains: []string{"adobe.com"}, Industry: "tech", ContentKeywords: techKeywords},

		// Commerce
		{Key: "ebay", CanonicalDomains: []string{"ebay.com"}, Industry: "commerce", ContentKeywords: commerceKeywords},
		{Key: "alibaba", CanonicalDomains: []string{"alibaba.com", "aliexpress.com"}, Industry: "commerce", ContentKeywords: commerceKeywords},
		{Key: "walmart", CanonicalDomains: []string{"walmart.com"}, Industry: "commerce", ContentKeywords: commerceKeywords},

		// Crypto
		{Key: "coinbase", CanonicalDomains: []string{"coinbase.com"}, Industry: "crypto", ContentKeywords: cryptoKeywords},
		{Key: "binance", CanonicalDomains: []string{"binance.com"}, Industry: "crypto", ContentKeywords: cryptoKeywords},
		{Key: "metamask", CanonicalDomains: []string{"metamask.io"}, Industry: "crypto", ContentKeywords: cryptoKeywords},

		// Shipping
		{Key: "fedex", CanonicalDomains: []string{"fedex.com"}, Industry: "shipping", ContentKeywords: shippingKeywords},
		{Key: "usps", CanonicalDomains: []string{"usps.com"}, Industry: "shipping", ContentKeywords: shippingKeywords},
		{Key: "dhl", CanonicalDomains: []string{"dhl.com"}, Industry: "shipping", ContentKeywords: shippingKeywords},
	}
}
