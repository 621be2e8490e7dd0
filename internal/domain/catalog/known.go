// Where: cli/internal/domain/catalog/known.go
// What: Property tables for the attribute types the generator understands.
// Why: Property order here is the key order of the emitted binding.
package catalog

const (
	webJobsNamespace   = "Microsoft.Azure.WebJobs"
	serviceBusAccount  = "ServiceBusAccountAttribute"
	storageAccount     = "StorageAccountAttribute"
	FunctionNameAttr   = "FunctionNameAttribute"
	NoAutoTriggerAttr  = "NoAutomaticTriggerAttribute"
	DisableAttr        = "DisableAttribute"
	BindingMarkerAttr  = "BindingAttribute"
	ConnectionProvAttr = "ConnectionProviderAttribute"
)

// LegacyBindings are binding attribute names recognized even without the binding marker.
var LegacyBindings = map[string]struct{}{
	"BlobAttribute":              {},
	"BlobTriggerAttribute":       {},
	"QueueAttribute":             {},
	"QueueTriggerAttribute":      {},
	"TableAttribute":             {},
	"EventHubAttribute":          {},
	"EventHubTriggerAttribute":   {},
	"TimerTriggerAttribute":      {},
	"DocumentDBAttribute":        {},
	"ApiHubTableAttribute":       {},
	"MobileTableAttribute":       {},
	"ServiceBusTriggerAttribute": {},
	"ServiceBusAttribute":        {},
	"TwilioSmsAttribute":         {},
	"NotificationHubAttribute":   {},
}

func str(name string) PropertySpec  { return PropertySpec{Name: name, Kind: KindString} }
func num(name string) PropertySpec  { return PropertySpec{Name: name, Kind: KindInt} }
func flag(name string) PropertySpec { return PropertySpec{Name: name, Kind: KindBool} }

var known = index(
	// Markers.
	&AttributeSpec{
		Name:         FunctionNameAttr,
		Namespace:    webJobsNamespace,
		Properties:   []PropertySpec{str("Name")},
		Constructors: [][]string{{"Name"}},
	},
	&AttributeSpec{Name: NoAutoTriggerAttr, Namespace: webJobsNamespace},
	&AttributeSpec{
		Name:      DisableAttr,
		Namespace: webJobsNamespace,
		Properties: []PropertySpec{
			str("SettingName"),
			{Name: "ProviderType", Kind: KindType},
		},
		Constructors: [][]string{{"SettingName"}, {"ProviderType"}},
	},
	&AttributeSpec{
		Name:         storageAccount,
		Namespace:    webJobsNamespace,
		Properties:   []PropertySpec{str("Account")},
		Constructors: [][]string{{"Account"}},
	},
	&AttributeSpec{
		Name:         serviceBusAccount,
		Namespace:    webJobsNamespace,
		Properties:   []PropertySpec{str("Account")},
		Constructors: [][]string{{"Account"}},
	},

	// Storage.
	&AttributeSpec{
		Name:               "QueueAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: storageAccount,
		Properties:         []PropertySpec{str("QueueName"), str("Connection")},
		Constructors:       [][]string{{"QueueName"}},
	},
	&AttributeSpec{
		Name:               "QueueTriggerAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: storageAccount,
		Properties:         []PropertySpec{str("QueueName"), str("Connection")},
		Constructors:       [][]string{{"QueueName"}},
	},
	&AttributeSpec{
		Name:               "BlobAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: storageAccount,
		Properties: []PropertySpec{
			str("BlobPath"),
			{Name: "Access", Kind: KindEnum, Enum: FileAccess, Nullable: true},
			str("Connection"),
		},
		Constructors: [][]string{{"BlobPath"}, {"BlobPath", "Access"}},
	},
	&AttributeSpec{
		Name:               "BlobTriggerAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: storageAccount,
		Properties:         []PropertySpec{str("BlobPath"), str("Connection")},
		Constructors:       [][]string{{"BlobPath"}},
	},
	&AttributeSpec{
		Name:               "TableAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: storageAccount,
		Properties: []PropertySpec{
			str("TableName"),
			str("PartitionKey"),
			str("RowKey"),
			num("Take"),
			str("Filter"),
			str("Connection"),
		},
		Constructors: [][]string{
			{"TableName"},
			{"TableName", "PartitionKey"},
			{"TableName", "PartitionKey", "RowKey"},
		},
	},

	// Event Hubs.
	&AttributeSpec{
		Name:         "EventHubAttribute",
		Namespace:    webJobsNamespace,
		Binding:      true,
		Properties:   []PropertySpec{str("EventHubName"), str("Connection")},
		Constructors: [][]string{{"EventHubName"}},
	},
	&AttributeSpec{
		Name:         "EventHubTriggerAttribute",
		Namespace:    webJobsNamespace,
		Binding:      true,
		Properties:   []PropertySpec{str("EventHubName"), str("ConsumerGroup"), str("Connection")},
		Constructors: [][]string{{"EventHubName"}},
	},

	// Timer.
	&AttributeSpec{
		Name:      "TimerTriggerAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("ScheduleExpression"),
			{Name: "ScheduleType", Kind: KindType},
			{Name: "UseMonitor", Kind: KindBool, Default: true},
			flag("RunOnStartup"),
		},
		Constructors: [][]string{{"ScheduleExpression"}, {"ScheduleType"}},
	},

	// Service Bus.
	&AttributeSpec{
		Name:               "ServiceBusAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: serviceBusAccount,
		Properties: []PropertySpec{
			str("QueueOrTopicName"),
			{Name: "Access", Kind: KindEnum, Enum: AccessRights, Default: "Manage"},
			{Name: "EntityType", Kind: KindEnum, Enum: EntityType, Default: "Queue"},
			str("Connection"),
		},
		Constructors: [][]string{
			{"QueueOrTopicName"},
			{"QueueOrTopicName", "Access"},
			{"QueueOrTopicName", "EntityType"},
		},
	},
	&AttributeSpec{
		Name:               "ServiceBusTriggerAttribute",
		Namespace:          webJobsNamespace,
		Binding:            true,
		ConnectionProvider: serviceBusAccount,
		Properties: []PropertySpec{
			str("QueueName"),
			str("TopicName"),
			str("SubscriptionName"),
			{Name: "Access", Kind: KindEnum, Enum: AccessRights, Default: "Manage"},
			str("Connection"),
		},
		Constructors: [][]string{
			{"QueueName"},
			{"QueueName", "Access"},
			{"TopicName", "SubscriptionName"},
			{"TopicName", "SubscriptionName", "Access"},
		},
	},

	// HTTP.
	&AttributeSpec{
		Name:      "HttpTriggerAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("Route"),
			{Name: "AuthLevel", Kind: KindEnum, Enum: AuthorizationLevel, Default: "Function"},
			{Name: "Methods", Kind: KindStringArray},
			str("WebHookType"),
		},
		Constructors: [][]string{{"Methods"}, {"AuthLevel"}, {"AuthLevel", "Methods"}},
	},

	// Document stores.
	&AttributeSpec{
		Name:      "DocumentDBAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("DatabaseName"),
			str("CollectionName"),
			flag("CreateIfNotExists"),
			str("ConnectionStringSetting"),
			str("Id"),
			str("PartitionKey"),
			num("CollectionThroughput"),
			str("SqlQuery"),
		},
		Constructors: [][]string{{"DatabaseName", "CollectionName"}},
	},
	&AttributeSpec{
		Name:      "CosmosDBAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("DatabaseName"),
			str("CollectionName"),
			flag("CreateIfNotExists"),
			str("ConnectionStringSetting"),
			str("Id"),
			str("PartitionKey"),
			num("CollectionThroughput"),
			str("SqlQuery"),
		},
		Constructors: [][]string{{"DatabaseName", "CollectionName"}},
	},
	&AttributeSpec{
		Name:      "CosmosDBTriggerAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("DatabaseName"),
			str("CollectionName"),
			str("ConnectionStringSetting"),
			str("LeaseConnectionStringSetting"),
			str("LeaseDatabaseName"),
			str("LeaseCollectionName"),
			flag("CreateLeaseCollectionIfNotExists"),
			num("LeasesCollectionThroughput"),
		},
		Constructors: [][]string{{"DatabaseName", "CollectionName"}},
	},

	// Mobile and notifications.
	&AttributeSpec{
		Name:      "NotificationHubAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("TagExpression"),
			str("ConnectionStringSetting"),
			str("HubName"),
			{Name: "Platform", Kind: KindEnum, Enum: NotificationPlatform, Nullable: true},
		},
	},
	&AttributeSpec{
		Name:      "MobileTableAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("TableName"),
			str("Id"),
			str("MobileAppUriSetting"),
			str("ApiKeySetting"),
		},
	},
	&AttributeSpec{
		Name:      "TwilioSmsAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("AccountSidSetting"),
			str("AuthTokenSetting"),
			str("To"),
			str("From"),
			str("Body"),
		},
	},
	&AttributeSpec{
		Name:      "SendGridAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("ApiKey"),
			str("To"),
			str("From"),
			str("Subject"),
			str("Text"),
		},
	},
	&AttributeSpec{
		Name:      "ApiHubTableAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
		Properties: []PropertySpec{
			str("Connection"),
			str("DataSetName"),
			str("TableName"),
			str("EntityId"),
		},
		Constructors: [][]string{
			{"Connection"},
			{"Connection", "DataSetName"},
			{"Connection", "DataSetName", "TableName"},
			{"Connection", "DataSetName", "TableName", "EntityId"},
		},
	},
	&AttributeSpec{
		Name:      "EventGridTriggerAttribute",
		Namespace: webJobsNamespace,
		Binding:   true,
	},
)

func index(specs ...*AttributeSpec) map[string]*AttributeSpec {
	out := make(map[string]*AttributeSpec, len(specs))
	for _, s := range specs {
		out[s.Name] = s
	}
	return out
}
