package i18n

var ko = map[MessageID]string{
	TitleOverview:   "📍 %s 분석",
	TitleValuation:  "💎 내재가치",
	TitleWhatIf:     "🕰️ What IF",
	TitleProjection: "📊 자산성장 예측표",
	TitleCommentary: "🤖 AI 코멘트",
	TitleRates:      "💱 환율 (1 USD 기준)",
	TitleDigest:     "📬 관심종목 요약",

	CurrentPrice: "현재 주가",
	ListingPrice: "상장가",
	ListingYear:  "상장 연도",
	PE:           "PER",
	ROE:          "ROE",
	PriceToBook:  "PBR",
	Volatility:   "변동성",
	CAGR:         "연평균 성장률",
	Range52w:     "52주 범위",
	Sector:       "섹터",
	Industry:     "산업",

	GrowthRate:       "추정 성장률",
	GrahamValue:      "그레이엄 가치",
	DCFValue:         "DCF 가치",
	IntrinsicAverage: "평균 내재가치",
	Gap:              "괴리율",
	Verdict:          "판단",

	VerdictUndervalued:   "저평가",
	VerdictFair:          "적정가",
	VerdictOvervalued:    "고평가",
	VerdictNotApplicable: "해당 없음",

	StartYear:        "투자 시작 연도",
	InitialPrincipal: "초기 원금",
	MonthlyDeposit:   "월 적립액",
	Period:           "투자 기간 (년)",
	Year:             "연차",
	Realistic:        "현실적",
	Bullish:          "낙관적",
	Bearish:          "비관적",
	TotalPrincipal:   "누적 원금",
	FinalAsset:       "최종 자산",
	NetProfit:        "순수익",
	ReturnPct:        "수익률",

	NoteNotComputable: "계산할 수 없음",
	NoteFund:          "펀드/ETF는 가치평가를 생략합니다",
	RatesDefault:      "실시간 환율을 불러오지 못해 기본 환율을 사용합니다",
	RatesUpdated:      "갱신 시각",

	ErrTickerNotFound: "티커를 찾을 수 없습니다. 티커를 확인해 주세요.",
	ErrRateLimited:    "데이터 제공처의 요청 한도에 도달했습니다. 잠시 후 다시 시도해 주세요.",
	ErrUnavailable:    "데이터 제공처에 연결할 수 없습니다. 잠시 후 다시 시도해 주세요.",
	ErrInvalidRequest: "잘못된 요청입니다: %s",
	ErrInternal:       "분석 중 오류가 발생했습니다.",

	HelpText:     "명령어:\n/analyze 티커 [통화] - 종목 분석\n/rates - 환율 조회\n/help - 도움말",
	UsageAnalyze: "사용법: /analyze 티커 [USD|CAD|KRW|EUR|GBP|JPY]",
	Disclaimer:   "본 분석은 참고용이며 투자 결과를 보장하지 않습니다.",
}

var en = map[MessageID]string{
	TitleOverview:   "📍 %s Analysis",
	TitleValuation:  "💎 Intrinsic Value",
	TitleWhatIf:     "🕰️ What IF",
	TitleProjection: "📊 Asset Growth Projection",
	TitleCommentary: "🤖 AI Commentary",
	TitleRates:      "💱 Exchange Rates (per 1 USD)",
	TitleDigest:     "📬 Watchlist Digest",

	CurrentPrice: "Current Price",
	ListingPrice: "Listing Price",
	ListingYear:  "Listing Year",
	PE:           "PER",
	ROE:          "ROE",
	PriceToBook:  "P/B",
	Volatility:   "Vol",
	CAGR:         "CAGR",
	Range52w:     "52w Range",
	Sector:       "Sector",
	Industry:     "Industry",

	GrowthRate:       "Est. Growth",
	GrahamValue:      "Graham Value",
	DCFValue:         "DCF Value",
	IntrinsicAverage: "Avg. Intrinsic Value",
	Gap:              "Gap",
	Verdict:          "Verdict",

	VerdictUndervalued:   "Undervalued",
	VerdictFair:          "Fair Value",
	VerdictOvervalued:    "Overvalued",
	VerdictNotApplicable: "Not Applicable",

	StartYear:        "Start Year",
	InitialPrincipal: "Initial Principal",
	MonthlyDeposit:   "Monthly Deposit",
	Period:           "Period (Yrs)",
	Year:             "Year",
	Realistic:        "Realistic",
	Bullish:          "Bullish",
	Bearish:          "Bearish",
	TotalPrincipal:   "Total Principal",
	FinalAsset:       "Final Asset",
	NetProfit:        "Net Profit",
	ReturnPct:        "Return",

	NoteNotComputable: "not computable",
	NoteFund:          "valuation is skipped for funds and ETFs",
	RatesDefault:      "live rates unavailable, using default table",
	RatesUpdated:      "Updated",

	ErrTickerNotFound: "Ticker not found. Please check the symbol.",
	ErrRateLimited:    "The data provider is rate limiting requests. Please try again later.",
	ErrUnavailable:    "The data provider is unreachable. Please try again later.",
	ErrInvalidRequest: "Invalid request: %s",
	ErrInternal:       "Analysis failed due to an internal error.",

	HelpText:     "Commands:\n/analyze TICKER [CCY] - analyze a security\n/rates - exchange rates\n/help - this help",
	UsageAnalyze: "Usage: /analyze TICKER [USD|CAD|KRW|EUR|GBP|JPY]",
	Disclaimer:   "For reference only. No guarantee of investment outcomes.",
}
