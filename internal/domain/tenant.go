package domain

// Tenant is one client of the multi-tenant watcher, with the connection
// metadata needed to reach its source databases.
type Tenant struct {
	ID       string         `bson:"_id,omitempty"`
	Name     string         `bson:"name"`
	IsActive bool           `bson:"is_active"`
	Campaign CampaignSource `bson:"campaign_config"`
	Channels ChannelSources `bson:"effective_channels"`
}

// CampaignSource locates the tenant's campaign source database.
type CampaignSource struct {
	ProjectID string `bson:"project_id"`
	Database  string `bson:"database"`
}

// ChannelSources lists the per-channel source databases of a tenant.
type ChannelSources struct {
	Mail     []ChannelSource `bson:"effmail,omitempty"`
	SMS      []ChannelSource `bson:"effsms,omitempty"`
	Push     []ChannelSource `bson:"effpush,omitempty"`
	WhatsApp []ChannelSource `bson:"effwhatsapp,omitempty"`
}

// ChannelSource is one channel integration endpoint of a tenant.
type ChannelSource struct {
	Name        string `bson:"name"`
	Integration string `bson:"integration"`
	Database    string `bson:"database"`
}
