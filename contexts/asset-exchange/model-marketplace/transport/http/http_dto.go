package httptransport

type TokenDTO struct {
	TokenID    string `json:"token_id"`
	Owner      string `json:"owner"`
	ContentURI string `json:"content_uri"`
	GatewayURL string `json:"gateway_url,omitempty"`
	Price      int64  `json:"price"`
	ForSale    bool   `json:"for_sale"`
	State      string `json:"state"`
	MintedAt   string `json:"minted_at"`
	UpdatedAt  string `json:"updated_at"`
}

type MintTokenRequest struct {
	ContentURI string `json:"content_uri"`
}

type MintTokenResponse struct {
	Item TokenDTO `json:"item"`
}

type GetTokenResponse struct {
	Item TokenDTO `json:"item"`
}

type ListTokensRequest struct {
	Owner   string `json:"owner,omitempty"`
	ForSale *bool  `json:"for_sale,omitempty"`
	Cursor  string `json:"cursor,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type ListTokensResponse struct {
	Items      []TokenDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type ListTokenRequest struct {
	Price int64 `json:"price"`
}

type ListingDTO struct {
	TokenID   string `json:"token_id"`
	Price     int64  `json:"price"`
	ForSale   bool   `json:"for_sale"`
	UpdatedAt string `json:"updated_at"`
}

type ListTokenResponse struct {
	Item ListingDTO `json:"item"`
}

type BuyTokenRequest struct {
	Payment int64 `json:"payment"`
}

type ReceiptDTO struct {
	ReceiptID   string `json:"receipt_id"`
	TokenID     string `json:"token_id"`
	Buyer       string `json:"buyer"`
	Seller      string `json:"seller"`
	Price       int64  `json:"price"`
	AmountPaid  int64  `json:"amount_paid"`
	PurchasedAt string `json:"purchased_at"`
}

type BuyTokenResponse struct {
	Receipt ReceiptDTO `json:"receipt"`
}

type ListSalesResponse struct {
	Items []ReceiptDTO `json:"items"`
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

type CollectionResponse struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply uint64 `json:"total_supply"`
}

type PublishModelRequest struct {
	FileName    string
	ContentType string
	Content     []byte
	Description string
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
