package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rwaledger/internal/config"
	badgerconfig "github.com/weisyn/rwaledger/internal/config/storage/badger"
	"github.com/weisyn/rwaledger/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/rwaledger/internal/core/ledger/engine"
	"github.com/weisyn/rwaledger/pkg/constants"
	"github.com/weisyn/rwaledger/pkg/types"
)

var inspectHeight uint64

// inspectCmd 离线查看账本数据
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "离线查看本地账本数据",
	Long:  "以只读方式打开配置中的 BadgerDB 数据目录；服务运行期间数据目录被锁定，需先停止服务",
}

var inspectAssetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "列出全部资产",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			assets, err := e.ListAssets(ctx)
			if err != nil {
				return err
			}
			if len(assets) == 0 {
				pterm.Info.Println("暂无资产")
				return nil
			}
			data := pterm.TableData{{"ID", "Owner", "Value", "Dividends", "Created", "Price Update", "URI"}}
			for _, a := range assets {
				data = append(data, []string{
					u64(a.ID), a.Owner.String(), u64(a.AssetValue), u64(a.TotalDividends),
					u64(a.CreationHeight), u64(a.LastPriceUpdate), a.MetadataURI,
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		})
	},
}

var inspectAssetCmd = &cobra.Command{
	Use:   "asset <asset-id>",
	Short: "查看资产详情及持有人",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			asset, err := e.GetAssetInfo(ctx, id)
			if err != nil {
				return err
			}
			if asset == nil {
				return fmt.Errorf("资产 %d 不存在", id)
			}
			supply, err := e.GetSupply(ctx, id)
			if err != nil {
				return err
			}
			holders, err := e.Holders(ctx, id)
			if err != nil {
				return err
			}

			pterm.DefaultSection.Printfln("资产 #%d", asset.ID)
			if err := pterm.DefaultTable.WithData(pterm.TableData{
				{"Owner", asset.Owner.String()},
				{"Metadata URI", asset.MetadataURI},
				{"Asset Value", u64(asset.AssetValue)},
				{"Total Dividends", u64(asset.TotalDividends)},
				{"Creation Height", u64(asset.CreationHeight)},
				{"Last Price Update", u64(asset.LastPriceUpdate)},
				{"Supply", u64(supply)},
			}).Render(); err != nil {
				return err
			}

			pterm.DefaultSection.Println("持有人")
			data := pterm.TableData{{"Account", "Balance"}}
			for _, h := range holders {
				data = append(data, []string{h.Account.String(), u64(h.Balance)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		})
	},
}

var inspectProposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "列出全部提案",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			proposals, err := e.ListProposals(ctx)
			if err != nil {
				return err
			}
			if len(proposals) == 0 {
				pterm.Info.Println("暂无提案")
				return nil
			}
			header := []string{"ID", "Asset", "Title", "Window", "For", "Against", "Minimum"}
			if inspectHeight > 0 {
				header = append(header, "Status")
			}
			data := pterm.TableData{header}
			for _, p := range proposals {
				row := []string{
					u64(p.ID), u64(p.AssetID), p.Title,
					fmt.Sprintf("%d..%d", p.StartHeight, p.EndHeight),
					u64(p.VotesFor), u64(p.VotesAgainst), u64(p.MinimumVotes),
				}
				if inspectHeight > 0 {
					row = append(row, string(p.StatusAt(inspectHeight)))
				}
				data = append(data, row)
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		})
	},
}

var inspectProposalCmd = &cobra.Command{
	Use:   "proposal <proposal-id>",
	Short: "查看提案详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			p, err := e.GetProposal(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("提案 %d 不存在", id)
			}
			rows := pterm.TableData{
				{"Asset", u64(p.AssetID)},
				{"Proposer", p.Proposer.String()},
				{"Title", p.Title},
				{"Window", fmt.Sprintf("%d..%d", p.StartHeight, p.EndHeight)},
				{"Votes For", u64(p.VotesFor)},
				{"Votes Against", u64(p.VotesAgainst)},
				{"Minimum Votes", u64(p.MinimumVotes)},
			}
			if inspectHeight > 0 {
				rows = append(rows, []string{"Status", string(p.StatusAt(inspectHeight))})
			}
			pterm.DefaultSection.Printfln("提案 #%d", p.ID)
			return pterm.DefaultTable.WithData(rows).Render()
		})
	},
}

var inspectSupplyCmd = &cobra.Command{
	Use:   "supply <asset-id>",
	Short: "核对资产份额总量",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			asset, err := e.GetAssetInfo(ctx, id)
			if err != nil {
				return err
			}
			if asset == nil {
				return fmt.Errorf("资产 %d 不存在", id)
			}
			supply, err := e.GetSupply(ctx, id)
			if err != nil {
				return err
			}
			if supply != constants.TokensPerAsset {
				pterm.Error.Printfln("资产 %d 份额总量 %d，应为 %d", id, supply, constants.TokensPerAsset)
				return fmt.Errorf("资产 %d 份额总量不一致", id)
			}
			pterm.Success.Printfln("资产 %d 份额总量 %d", id, supply)
			return nil
		})
	},
}

var inspectKycCmd = &cobra.Command{
	Use:   "kyc <account>",
	Short: "查看账户合规状态",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(ctx context.Context, e *engine.Engine) error {
			status, err := e.GetKycStatus(ctx, types.Address(args[0]))
			if err != nil {
				return err
			}
			if status == nil {
				pterm.Warning.Printfln("账户 %s 没有合规记录", args[0])
				return nil
			}
			rows := pterm.TableData{
				{"Account", status.Account.String()},
				{"Approved", strconv.FormatBool(status.IsApproved)},
				{"Level", u64(status.Level)},
				{"Expiry", u64(status.Expiry)},
			}
			if inspectHeight > 0 {
				rows = append(rows, []string{"Compliant", strconv.FormatBool(status.CompliantAt(inspectHeight))})
			}
			return pterm.DefaultTable.WithData(rows).Render()
		})
	},
}

func init() {
	inspectCmd.PersistentFlags().Uint64Var(&inspectHeight, "height", 0, "按该高度计算提案状态与合规性（0 表示不计算）")

	inspectCmd.AddCommand(inspectAssetsCmd)
	inspectCmd.AddCommand(inspectAssetCmd)
	inspectCmd.AddCommand(inspectProposalsCmd)
	inspectCmd.AddCommand(inspectProposalCmd)
	inspectCmd.AddCommand(inspectSupplyCmd)
	inspectCmd.AddCommand(inspectKycCmd)
}

// withLedger 只读打开本地账本并执行 fn
func withLedger(fn func(ctx context.Context, e *engine.Engine) error) error {
	appConfig, err := config.LoadFile(globalFlags.ConfigPath)
	if err != nil {
		return err
	}
	provider := config.NewProvider(appConfig)

	storageOpts := *provider.GetStorage()
	if storageOpts.InMemory {
		return fmt.Errorf("配置为内存存储，没有可查看的本地数据")
	}
	storageOpts.ReadOnly = true

	store, err := badger.New(badgerconfig.NewFromOptions(&storageOpts), nil)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	e, err := engine.New(store, nil, nil, provider.GetLedger(), nil)
	if err != nil {
		return err
	}
	return fn(context.Background(), e)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的 ID %q", s)
	}
	return id, nil
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }
