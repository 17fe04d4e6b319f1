package config

// DefaultLexicon returns the built-in institution lexicon.
func DefaultLexicon() *LexiconFile {
	return &LexiconFile{
		Phrases: []string{
			"ally bank", "bank of america", "wells fargo", "capital one", "td bank",
			"us bank", "fifth third", "bank of the west", "citizens bank", "pnc bank",
			"hsbc bank", "santander bank", "barclays bank", "standard chartered",
			"american express", "bank of scotland", "royal bank of canada",
			"bank of montreal", "state bank of india", "icici bank", "axis bank",
			"union bank", "first republic", "first citizens", "credit suisse",
			"deutsche bank", "jpmorgan chase", "jp morgan", "morgan stanley",
		},
		Brands: []string{
			"chase", "citi", "citibank", "pnc", "hsbc", "barclays", "santander",
			"monzo", "revolut", "nubank", "sofi", "chime", "wise", "ally",
		},
		Ambiguous: []string{"ally"},
		Aliases: map[string]string{
			"jp morgan":      "jpmorgan chase",
			"citibank":       "citi",
			"pnc bank":       "pnc",
			"hsbc bank":      "hsbc",
			"barclays bank":  "barclays",
			"santander bank": "santander",
		},
		Exclusions:    []string{"zelle", "venmo", "cash app", "apple pay", "google pay"},
		ContextWords:  []string{"bank", "banking", "app", "card", "checking", "savings"},
		ContextWindow: 3,
		PhraseForms:   map[string]string{"ally": "ally bank"},
	}
}

// DefaultTaxonomy returns the built-in feature, topic, and sentiment tables.
func DefaultTaxonomy() *TaxonomyFile {
	return &TaxonomyFile{
		Features: []TagList{
			{Tag: "login_auth", Patterns: []string{
				`\blogin\b`, `\bsign[- ]?in\b`, `\b2fa\b`, `\bmfa\b`,
				`\bone[- ]?time[- ]?pass(code|word)?\b`, `\botp\b`,
				`\bbiometric(s)?\b`, `\bface[- ]?id\b`, `\btouch[- ]?id\b`,
			}},
			{Tag: "payments_transfers", Patterns: []string{
				`\btransfer(s|ring)?\b`, `\bzelle\b`, `\bwire\b`,
				`\bpay(ment|ments)?\b`, `\bbill[- ]?pay\b`, `\bvenmo\b`, `\bcash app\b`,
			}},
			{Tag: "cards_controls", Patterns: []string{
				`\bvirtual (card|cards)\b`, `\bfreeze (card|my card)\b`,
				`\block (card|my card)\b`, `\bunfreeze\b`, `\bcard controls?\b`,
			}},
			{Tag: "check_deposit", Patterns: []string{
				`\bmobile (check )?deposit\b`, `\bremote deposit\b`, `\bphoto deposit\b`,
			}},
			{Tag: "balances_statements", Patterns: []string{
				`\bbalance(s)?\b`, `\bstatement(s)?\b`, `\btransaction(s)?\b`,
				`\bspending\b`, `\bcategory\b`, `\bexport\b`, `\bdownload\b`,
			}},
			{Tag: "budgeting_analytics", Patterns: []string{
				`\bbudget(ing)?\b`, `\bsavings? goal(s)?\b`, `\binsight(s)?\b`, `\bchart(s)?\b`,
			}},
			{Tag: "notifications", Patterns: []string{
				`\bnotification(s)?\b`, `\bpush\b`, `\balert(s)?\b`,
			}},
			{Tag: "profile_settings", Patterns: []string{
				`\bprofile\b`, `\bsettings?\b`, `\baddress\b`, `\bemail\b`, `\bphone\b`, `\bpassword\b`,
			}},
			{Tag: "security_fraud", Patterns: []string{
				`\bfraud\b`, `\bdispute(s|d)?\b`, `\bchargeback\b`, `\bfreeze\b`, `\block(ed)?\b`,
			}},
			{Tag: "support_chat", Patterns: []string{
				`\bchat support\b`, `\blive chat\b`, `\bsupport\b`, `\bcontact\b`, `\bhelp\b`,
			}},
			{Tag: "rewards_offers", Patterns: []string{
				`\breward(s)?\b`, `\bcashback\b`, `\boffer(s)?\b`, `\bpoints\b`,
			}},
			{Tag: "wallet_integrations", Patterns: []string{
				`\bapple pay\b`, `\bgoogle pay\b`, `\bwallet\b`,
			}},
			{Tag: "ui_ux_accessibility", Patterns: []string{
				`\bdark mode\b`, `\baccessibility\b`, `\bfont size\b`, `\blayout\b`,
				`\bnavigation\b`, `\bcrash(ed|es|ing)?\b`, `\bbug(s)?\b`, `\bslow\b`,
			}},
		},
		Topics: []TagList{
			{Tag: "login_auth", Patterns: []string{
				`\blogin\b`, `\bsign\s+in\b`, `\b2fa\b`, `\bmfa\b`, `\bbiometric\b`, `\bpassword\b`,
			}},
			{Tag: "payments", Patterns: []string{
				`\btransfer\b`, `\bpayment\b`, `\bbill\s+pay\b`, `\bzelle\b`, `\bwire\b`, `\bdeposit\b`,
			}},
			{Tag: "cards", Patterns: []string{
				`\bcard\b`, `\bcredit\s+card\b`, `\bdebit\s+card\b`, `\bvirtual\s+card\b`, `\bfreeze\s+card\b`,
			}},
			{Tag: "mobile_app", Patterns: []string{
				`\bapp\b`, `\bmobile\b`, `\bcrash\b`, `\bbug\b`, `\bslow\b`, `\bupdate\b`,
			}},
			{Tag: "fees", Patterns: []string{
				`\bfee\b`, `\bcharge\b`, `\bcost\b`, `\bexpensive\b`, `\boverdraft\b`,
			}},
			{Tag: "customer_service", Patterns: []string{
				`\bsupport\b`, `\bhelp\b`, `\bcontact\b`, `\bchat\b`, `\bcall\b`, `\bphone\b`,
			}},
			{Tag: "security", Patterns: []string{
				`\bfraud\b`, `\bscam\b`, `\bsecurity\b`, `\bhack\b`, `\bbreach\b`, `\bsteal\b`,
			}},
			{Tag: "account_management", Patterns: []string{
				`\baccount\b`, `\bprofile\b`, `\bsettings\b`, `\bclose\b`, `\bopen\b`, `\bverify\b`,
			}},
		},
		PositiveTerms: []string{
			`\bexcellent\b`, `\bgreat\b`, `\bamazing\b`, `\bperfect\b`, `\blove\b`, `\bfantastic\b`,
			`\bwonderful\b`, `\boutstanding\b`, `\bsmooth\b`, `\beasy\b`, `\bquick\b`, `\bfast\b`,
			`\bhelpful\b`, `\bsupportive\b`, `\bresponsive\b`, `\bprofessional\b`, `\breliable\b`,
		},
		NegativeTerms: []string{
			`\bterrible\b`, `\bawful\b`, `\bhorrible\b`, `\bworst\b`, `\bhate\b`, `\bdisgusting\b`,
			`\bfrustrating\b`, `\bannoying\b`, `\bdisappointing\b`, `\bpathetic\b`, `\bunacceptable\b`,
			`\bnightmare\b`, `\bdisaster\b`, `\bscam\b`, `\bfraud\b`, `\bsteal\b`, `\bcheat\b`,
		},
		IssueTerms: []string{
			`\blogin\b`, `\blog\s+in\b`, `\bsign\s+in\b`, `\b2fa\b`, `\bmfa\b`, `\botp\b`,
			`\bbiometric\b`, `\bface\s+id\b`, `\btouch\s+id\b`,
			`\berror\b`, `\bfailed\b`, `\bdenied\b`, `\bdeclined\b`, `\brejected\b`,
			`\bblocked\b`, `\blocked\b`, `\bfreeze\b`, `\bfroze(n)?\b`, `\bfraud\b`,
			`\bdeposit\b`, `\bmobile\s+deposit\b`, `\bcheck\s+deposit\b`, `\btransfer\b`,
			`\bzelle\b`, `\bwire\b`, `\bbill\s+pay\b`,
			`\bchargeback\b`, `\bdispute\b`, `\bvirtual\s+card\b`, `\bfreeze\s+card\b`, `\bunfreeze\b`,
			`\bcrash\b`, `\bcrashing\b`, `\bbug\b`, `\bslow\b`, `\blag\b`, `\bhang\b`, `\bstuck\b`,
			`\bverification\b`, `\bkyc\b`, `\baddress\s+update\b`, `\bprofile\b`, `\bpassword\s+reset\b`,
		},
	}
}
